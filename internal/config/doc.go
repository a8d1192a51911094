// Package config defines the format-agnostic model of a batch generation
// job and the Loader interface for reading it from a concrete format.
//
// The `config.Job` is the single source of truth for the `batch` package.
// The HCL implementation of Loader lives in the `hcl` package.
package config
