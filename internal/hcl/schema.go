package hcl

// jobFile is the HCL schema of a job file. Pointer fields distinguish an
// omitted attribute from its zero value so defaults can apply.
type jobFile struct {
	InputDir  string   `hcl:"input_dir"`
	OutputDir string   `hcl:"output_dir"`
	Seed      *int64   `hcl:"seed,optional"`
	Keyframes *int     `hcl:"keyframes,optional"`
	Cameras   []string `hcl:"cameras,optional"`

	UIDs           []string `hcl:"uids,optional"`
	UIDLists       []string `hcl:"uid_lists,optional"`
	ExcludeLists   []string `hcl:"exclude_lists,optional"`
	IntersectLists []string `hcl:"intersect_lists,optional"`
	MeshDirs       []string `hcl:"mesh_dirs,optional"`
	LimitPerFile   *int     `hcl:"limit_per_file,optional"`
	Shuffle        bool     `hcl:"shuffle,optional"`
	ShuffleSeed    *int64   `hcl:"shuffle_seed,optional"`

	MetadataDir     string `hcl:"metadata_dir,optional"`
	RequireMetadata bool   `hcl:"require_metadata,optional"`

	Pipeline *pipelineBlock `hcl:"pipeline,block"`
}

type pipelineBlock struct {
	Endpoint    string   `hcl:"endpoint"`
	Timeout     *string  `hcl:"timeout,optional"`
	AttnBackend *string  `hcl:"attn_backend,optional"`
	SpconvAlgo  *string  `hcl:"spconv_algo,optional"`
	Simplify    *float64 `hcl:"simplify,optional"`
	TextureSize *int     `hcl:"texture_size,optional"`
}
