// Package cli parses the command-line surface and translates it into an
// app.Config.
package cli
