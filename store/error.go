package store

import "github.com/ardnew/makemake/pkg"

// Predefined errors (sentinel values).
var (
	ErrTemplateNotFound = pkg.NewError("template not found")
	ErrInvalidName      = pkg.NewError("invalid template name")
	ErrReadConfig       = pkg.NewError("cannot read config")
	ErrWriteConfig      = pkg.NewError("cannot write config")
	ErrAliasNotFound    = pkg.NewError("alias not found")
	ErrStore            = pkg.NewError("template store failure")
)
