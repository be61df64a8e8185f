// Package sweep defines the declarative model of a training seed sweep
// and loads it from HCL files. The model is constructed once at startup
// and is read-only for the lifetime of the process.
package sweep
