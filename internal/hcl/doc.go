// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file parsing, expression evaluation and
// translating the HCL job schema into the format-agnostic config.Job.
package hcl
