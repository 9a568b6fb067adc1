package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// DirMode is the permission mode used for directories created on behalf of
// the user (config directory, template store).
const DirMode os.FileMode = 0o700

// ConfigFile is the base name of the global configuration file.
const ConfigFile = "config.yaml"

// TemplatesDir is the base name of the template store directory.
const TemplatesDir = "templates"

// Prefix returns the base name used to construct the configuration and cache
// directory paths.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name,
			regexp.MustCompile(`^\.+`):             "",
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" || strings.HasSuffix(id, ".test") {
			id = Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(xdg.ConfigHome, Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files such as
// profiling output.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(xdg.CacheHome, Prefix())
	},
)

// ConfigPath returns the default path of the global configuration file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// StorePath returns the default path of the template store.
func StorePath() string {
	return filepath.Join(ConfigDir(), TemplatesDir)
}
