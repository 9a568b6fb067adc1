// Package cmd implements the makemake subcommands. Each command reads its
// [Env] from the context passed to Run.
package cmd

var (
	// StoreIdentifier is the kong variable identifier containing the default
	// path of the template store.
	StoreIdentifier = "store"

	// ConfigIdentifier is the kong variable identifier containing the default
	// path of the configuration file.
	ConfigIdentifier = "config"
)
