package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/vk/trellisbatch/internal/config"
	"github.com/vk/trellisbatch/internal/ctxlog"
	"github.com/vk/trellisbatch/internal/fsutil"
	"github.com/vk/trellisbatch/internal/uid"
)

// ResolveUIDs collects, filters and parses the identifiers of a job. The
// returned order is the order of first appearance; duplicates are dropped.
func ResolveUIDs(ctx context.Context, job *config.Job) ([]uid.Identifier, error) {
	logger := ctxlog.FromContext(ctx)

	opts := uid.ListOptions{LimitPerFile: job.LimitPerFile, Shuffle: job.Shuffle}
	if job.ShuffleSeed != nil {
		opts.Rand = rand.New(rand.NewPCG(*job.ShuffleSeed, *job.ShuffleSeed))
	}

	raw := append([]string(nil), job.UIDs...)

	listed, err := uid.LoadFromTextFiles(job.UIDLists, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load uid lists: %w", err)
	}
	raw = append(raw, listed...)
	logger.Debug("Loaded uid lists.", "files", len(job.UIDLists), "entries", len(listed))

	for _, dir := range job.MeshDirs {
		indexed, err := indexMeshDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Indexed mesh directory.", "dir", dir, "entries", len(indexed))
		raw = append(raw, indexed...)
	}

	if len(job.ExcludeLists) > 0 {
		excluded, err := uid.LoadFromTextFiles(job.ExcludeLists, uid.DefaultListOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to load exclude lists: %w", err)
		}
		before := len(raw)
		raw = uid.FilterExcluded(raw, excluded)
		logger.Debug("Applied exclusions.", "removed", before-len(raw))
	}

	if len(job.IntersectLists) > 0 {
		groups := [][]string{raw}
		for _, p := range job.IntersectLists {
			g, err := uid.LoadFromTextFiles([]string{p}, uid.DefaultListOptions)
			if err != nil {
				return nil, fmt.Errorf("failed to load intersect list: %w", err)
			}
			groups = append(groups, g)
		}
		if raw, err = uid.Intersect(groups); err != nil {
			return nil, err
		}
	}

	var (
		ids  []uid.Identifier
		errs []error
	)
	for _, s := range dedupe(raw) {
		id, err := uid.Parse(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, id)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid identifiers in job: %w", errors.Join(errs...))
	}
	return ids, nil
}

// indexMeshDir returns the identifiers of every mesh file under dir.
// Meshes whose identifier has no output directory (bucketed layouts,
// stray previews) cannot be planned and are skipped with a warning.
func indexMeshDir(ctx context.Context, dir string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.FindFilesByExtension(dir, uid.MeshExt)
	if err != nil {
		return nil, fmt.Errorf("failed to index mesh directory '%s': %w", dir, err)
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		id, err := uid.FromMeshPath(f)
		if err != nil {
			return nil, err
		}
		if _, err := id.OutputDir("", false); errors.Is(err, uid.ErrUnsupported) {
			logger.Warn("Skipping mesh without an output directory.", "path", f, "uid", id.Total())
			continue
		}
		out = append(out, id.Total())
	}
	return out, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
