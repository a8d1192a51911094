package uid

import "fmt"

// MeshExt is the extension of mesh files produced by the generator.
const MeshExt = ".glb"

// MetadataFile is the per-identifier metadata record name.
const MetadataFile = "process_dict.json"

// Identifier is the capability set shared by both identifier grammars.
type Identifier interface {
	fmt.Stringer

	// Total is the full raw identifier string.
	Total() string
	// Stem is the portion used as a bare file name.
	Stem() string
	// Tag is the short grouping key used as a directory bucket.
	Tag() string

	// OutputDir returns the per-identifier output directory under root.
	OutputDir(root string, mustExist bool) (string, error)
	// MeshPath returns the per-identifier mesh file path under root.
	MeshPath(root string, mustExist bool) (string, error)
	// MetadataPath returns the location of the metadata record under root.
	MetadataPath(root string) string

	sealed()
}

// Numeric is an identifier of the form `<global>_<local>`.
type Numeric struct {
	global string
	local  string
}

// Total returns the raw identifier, e.g. "2014741_002".
func (n Numeric) Total() string { return n.global + "_" + n.local }

// Stem is the same as Total for numeric identifiers.
func (n Numeric) Stem() string { return n.Total() }

// Tag returns the last two characters of the global part.
func (n Numeric) Tag() string {
	if len(n.global) <= 2 {
		return n.global
	}
	return n.global[len(n.global)-2:]
}

// Global returns the part before the separator.
func (n Numeric) Global() string { return n.global }

// Local returns the three-digit part after the separator.
func (n Numeric) Local() string { return n.local }

func (n Numeric) String() string { return n.Total() }

func (Numeric) sealed() {}

// Bucketed is an identifier of the form `<bucket>/<hash>`.
type Bucketed struct {
	bucket string
	hash   string
}

// Total returns the raw identifier, e.g. "000-0007/7282...".
func (b Bucketed) Total() string { return b.bucket + "/" + b.hash }

// Stem returns the hash.
func (b Bucketed) Stem() string { return b.hash }

// Tag returns the bucket.
func (b Bucketed) Tag() string { return b.bucket }

func (b Bucketed) String() string { return b.Total() }

func (Bucketed) sealed() {}
