// Package launcher runs a seed sweep: it builds the trainer's argument
// vector for each seed and spawns the training program once per seed,
// strictly in ascending seed order, waiting for each child before the
// next.
package launcher
