package uid

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; the returned errors
// wrap them with the offending string or path.
var (
	ErrInvalidFormat    = errors.New("invalid identifier format")
	ErrUnsupported      = errors.New("unsupported operation")
	ErrPathNotFound     = errors.New("path not found")
	ErrMetadataNotFound = errors.New("metadata not found")
	ErrMetadataCorrupt  = errors.New("metadata corrupt")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// FormatError reports that a string matched neither identifier grammar.
// It keeps the reason each grammar rejected the input.
type FormatError struct {
	Input       string // raw identifier or mesh path
	NumericErr  error
	BucketedErr error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%v %q: not numeric (%v), not bucketed (%v)",
		ErrInvalidFormat, e.Input, e.NumericErr, e.BucketedErr)
}

// Is makes a FormatError match ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}
