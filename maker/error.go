package maker

import "github.com/ardnew/makemake/pkg"

// Predefined errors (sentinel values).
var (
	ErrManifest        = pkg.NewError("invalid manifest")
	ErrUnknownAction   = pkg.NewError("unknown action")
	ErrUnsupportedFile = pkg.NewError("unsupported file type")
	ErrRelativePath    = pkg.NewError("cannot compute relative path")
	ErrSymlink         = pkg.NewError("cannot replicate symlink")
	ErrCopy            = pkg.NewError("copy failed")
	ErrExpand          = pkg.NewError("expansion failed")
	ErrSplitCommand    = pkg.NewError("cannot split command")
	ErrCommandFailed   = pkg.NewError("command failed")
)
