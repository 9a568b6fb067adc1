package maker

import (
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
)

// Names of the variables computed for every load.
const (
	VarOS   = "_OS"
	VarPDir = "_PDIR"
)

// platformFlag maps GOOS values to the name of the variable set to "true" on
// that platform.
//
//nolint:gochecknoglobals
var platformFlag = map[string]string{
	"linux":   "_LINUX",
	"windows": "_WINDOWS",
	"darwin":  "_MACOS",
	"ios":     "_IOS",
	"freebsd": "_FREEBSD",
}

// OSName returns the value of [VarOS] for goos.
func OSName(goos string) string {
	if goos == "darwin" {
		return "macos"
	}

	return goos
}

// InternalVars returns the variables computed for a load into dest on goos:
// [VarOS], the platform flag of goos (if any), and [VarPDir], the base name of
// the absolute destination path.
func InternalVars(goos, dest string) lang.Vars {
	vars := lang.Vars{VarOS: OSName(goos)}

	if flag, ok := platformFlag[goos]; ok {
		vars[flag] = "true"
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		abs = dest
	}

	vars[VarPDir] = filepath.Base(abs)

	return vars
}

// MergeVars returns the variables of a load into dest, from lowest to highest
// precedence: the manifest defaults, the internal variables, and caller.
//
// If the manifest sets ExpandVariables, each default value is first expanded
// in a scope holding the internal and caller variables. That scope resolves
// file functions against root on fsys.
func MergeVars(
	fsys afero.Fs, root string, m *Manifest, caller lang.Vars, dest string,
) (lang.Vars, error) {
	internal := InternalVars(runtime.GOOS, dest)

	var defaults lang.Vars

	if m != nil {
		defaults = m.Vars
	}

	if m != nil && m.ExpandVariables && len(defaults) > 0 {
		env := lang.NewScope(fsys, root, lang.Vars{}.Merge(internal, caller))
		expanded := make(lang.Vars, len(defaults))

		for name, value := range defaults {
			v, err := env.ExpandString(value)
			if err != nil {
				return nil, ErrExpand.Wrap(err).With(slog.String("var", name))
			}

			expanded[name] = v
		}

		defaults = expanded
	}

	return lang.Vars{}.Merge(defaults, internal, caller), nil
}
