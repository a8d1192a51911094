package uid

import (
	"fmt"
	"path/filepath"

	"github.com/vk/trellisbatch/internal/fsutil"
)

// OutputDir returns root/tag/stem.
func (n Numeric) OutputDir(root string, mustExist bool) (string, error) {
	p := filepath.Join(root, n.Tag(), n.Stem())
	if mustExist {
		return p, requireDir(p)
	}
	return p, nil
}

// MeshPath returns root/tag/global/stem.glb.
func (n Numeric) MeshPath(root string, mustExist bool) (string, error) {
	p := filepath.Join(root, n.Tag(), n.global, n.Stem()+MeshExt)
	if mustExist {
		return p, requireFile(p)
	}
	return p, nil
}

// MetadataPath returns root/tag/stem/process_dict.json.
func (n Numeric) MetadataPath(root string) string {
	return filepath.Join(root, n.Tag(), n.Stem(), MetadataFile)
}

// OutputDir is not defined for bucketed identifiers and always fails
// with ErrUnsupported.
func (b Bucketed) OutputDir(root string, mustExist bool) (string, error) {
	return "", fmt.Errorf("output directory for bucketed identifier %q: %w", b.Total(), ErrUnsupported)
}

// MeshPath returns root/bucket/hash.glb.
func (b Bucketed) MeshPath(root string, mustExist bool) (string, error) {
	p := filepath.Join(root, b.bucket, b.hash+MeshExt)
	if mustExist {
		return p, requireFile(p)
	}
	return p, nil
}

// MetadataPath returns root/bucket/hash/process_dict.json.
func (b Bucketed) MetadataPath(root string) string {
	return filepath.Join(root, b.bucket, b.hash, MetadataFile)
}

func requireDir(p string) error {
	if !fsutil.IsDir(p) {
		return fmt.Errorf("directory %s: %w", p, ErrPathNotFound)
	}
	return nil
}

func requireFile(p string) error {
	if !fsutil.IsRegularFile(p) {
		return fmt.Errorf("file %s: %w", p, ErrPathNotFound)
	}
	return nil
}
