package uid

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Metadata is a processing record written next to an identifier's outputs
// by external producers. It is read-only here.
type Metadata map[string]any

// LoadMetadata reads the metadata record for id under root. A missing
// record yields (nil, nil) unless mustExist is set, in which case the
// error wraps ErrMetadataNotFound. Malformed content always fails with
// ErrMetadataCorrupt.
func LoadMetadata(id Identifier, root string, mustExist bool) (Metadata, error) {
	p := id.MetadataPath(root)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if mustExist {
				return nil, fmt.Errorf("%s: %w", p, ErrMetadataNotFound)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("reading metadata %s: %w", p, err)
	}

	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", p, ErrMetadataCorrupt, err)
	}
	if md == nil {
		// `null` is valid JSON but not a record.
		return nil, fmt.Errorf("%s: %w: not an object", p, ErrMetadataCorrupt)
	}
	return md, nil
}

// LookupMetadata returns a single key of the metadata record. The boolean
// reports whether both the record and the key were present.
func LookupMetadata(id Identifier, root, key string, mustExist bool) (any, bool, error) {
	md, err := LoadMetadata(id, root, mustExist)
	if err != nil || md == nil {
		return nil, false, err
	}
	v, ok := md[key]
	return v, ok, nil
}
