package cmd

import "github.com/ardnew/makemake/pkg"

// Predefined errors (sentinel values).
var (
	ErrNoEnv         = pkg.NewError("command environment not configured")
	ErrInvalidAnswer = pkg.NewError("invalid answer")
	ErrJSONMarshal   = pkg.NewError("marshal JSON")
	ErrYAMLMarshal   = pkg.NewError("marshal YAML")
	ErrNoManifest    = pkg.NewError("template has no manifest")
	ErrDestination   = pkg.NewError("cannot inspect destination")
	ErrWrite         = pkg.NewError("write output")
)
