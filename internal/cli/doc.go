// Package cli is the process boundary: it exposes the clapgo cobra command,
// resolves host settings from the environment and translates run results
// into exit codes.
package cli
