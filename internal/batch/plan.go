package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/trellisbatch/internal/config"
	"github.com/vk/trellisbatch/internal/ctxlog"
	"github.com/vk/trellisbatch/internal/uid"
)

// Task is one generator invocation.
type Task struct {
	UID        uid.Identifier
	Camera     string
	Keyframe   int
	ImagePath  string
	OutputPath string
}

// ImageName returns the file name of a rendered keyframe.
func ImageName(id uid.Identifier, keyframe int, camera string) string {
	return fmt.Sprintf("uid_%s_kf_%d_camid_%s.png", id.Total(), keyframe, camera)
}

// AssetName returns the file name of a generated asset.
func AssetName(id uid.Identifier, camera string, keyframe int) string {
	return fmt.Sprintf("%s_%s_%03d%s", id.Total(), camera, keyframe, uid.MeshExt)
}

// Plan expands ids into tasks ordered by identifier, camera, keyframe.
// When the job has a metadata directory, identifiers without a metadata
// record are left out, or fail the plan if the job requires metadata.
func Plan(ctx context.Context, job *config.Job, ids []uid.Identifier) ([]Task, error) {
	logger := ctxlog.FromContext(ctx)

	tasks := make([]Task, 0, len(ids)*len(job.Cameras)*job.Keyframes)
	for _, id := range ids {
		if job.MetadataDir != "" {
			md, err := uid.LoadMetadata(id, job.MetadataDir, job.RequireMetadata)
			if err != nil {
				return nil, fmt.Errorf("uid %s: %w", id, err)
			}
			if md == nil {
				logger.Warn("No metadata record, skipping identifier.", "uid", id.Total(), "path", id.MetadataPath(job.MetadataDir))
				continue
			}
		}

		outDir, err := id.OutputDir(job.OutputDir, false)
		if err != nil {
			return nil, fmt.Errorf("uid %s: %w", id, err)
		}

		for _, cam := range job.Cameras {
			for i := 0; i < job.Keyframes; i++ {
				tasks = append(tasks, Task{
					UID:        id,
					Camera:     cam,
					Keyframe:   i,
					ImagePath:  filepath.Join(job.InputDir, ImageName(id, i, cam)),
					OutputPath: filepath.Join(outDir, cam, AssetName(id, cam, i)),
				})
			}
		}
	}
	return tasks, nil
}
