package uid

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	numericSep  = "_"
	bucketedSep = "/"
	localLen    = 3
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseNumeric parses the `<global>_<local>` grammar.
func ParseNumeric(raw string) (Numeric, error) {
	if n := strings.Count(raw, numericSep); n != 1 {
		return Numeric{}, fmt.Errorf("expected exactly one %q separator, found %d", numericSep, n)
	}
	global, local, _ := strings.Cut(raw, numericSep)
	if !isDigits(global) {
		return Numeric{}, fmt.Errorf("global part %q is not numeric", global)
	}
	if !isDigits(local) {
		return Numeric{}, fmt.Errorf("local part %q is not numeric", local)
	}
	if len(local) != localLen {
		return Numeric{}, fmt.Errorf("local part %q must have %d digits", local, localLen)
	}
	return Numeric{global: global, local: local}, nil
}

// ParseBucketed parses the `<bucket>/<hash>` grammar.
func ParseBucketed(raw string) (Bucketed, error) {
	parts := strings.Split(raw, bucketedSep)
	if len(parts) != 2 {
		return Bucketed{}, fmt.Errorf("expected exactly two %q-separated segments, found %d", bucketedSep, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return Bucketed{}, errors.New("bucket and hash must be non-empty")
	}
	for _, seg := range parts {
		if seg == "." || seg == ".." {
			return Bucketed{}, fmt.Errorf("segment %q is not a valid bucket or hash", seg)
		}
	}
	return Bucketed{bucket: parts[0], hash: parts[1]}, nil
}

// Parse returns the Numeric form of raw when it satisfies that grammar and
// the Bucketed form otherwise. When neither applies the error is a
// *FormatError carrying both rejections.
func Parse(raw string) (Identifier, error) {
	n, numErr := ParseNumeric(raw)
	if numErr == nil {
		return n, nil
	}
	b, bktErr := ParseBucketed(raw)
	if bktErr == nil {
		return b, nil
	}
	return nil, &FormatError{Input: raw, NumericErr: numErr, BucketedErr: bktErr}
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(raw string) Identifier {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// FromMeshPath recovers the identifier from a mesh file path. The base
// name without extension is tried as a numeric identifier first, then
// `<parent dir>/<base name>` as a bucketed one.
func FromMeshPath(path string) (Identifier, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	n, numErr := ParseNumeric(stem)
	if numErr == nil {
		return n, nil
	}

	var bktErr error
	parent := filepath.Base(filepath.Dir(path))
	if parent == "." || parent == string(filepath.Separator) {
		bktErr = errors.New("path has no parent directory to use as bucket")
	} else {
		var b Bucketed
		if b, bktErr = ParseBucketed(parent + bucketedSep + stem); bktErr == nil {
			return b, nil
		}
	}
	return nil, &FormatError{Input: path, NumericErr: numErr, BucketedErr: bktErr}
}
