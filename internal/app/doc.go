// Package app wires the sweep model, the launcher, the tracker, and the
// report together and owns the application lifecycle.
package app
