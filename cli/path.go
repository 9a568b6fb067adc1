package cli

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/makemake/pkg"
)

// mkdirAllRequired creates the directories needed before any command runs.
func mkdirAllRequired(dir ...string) error {
	for _, d := range dir {
		err := os.MkdirAll(d, pkg.DirMode)
		if err != nil {
			return err
		}
	}

	return nil
}

// scanConfigPath returns the value of the --config flag in args, or def if
// the flag is absent. The config file supplies flag defaults, so it must be
// known before kong parses args.
func scanConfigPath(args []string, def string) string {
	path := def

	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			break
		}

		name, value, assigned := strings.Cut(args[i], "=")
		if name != "--config" {
			continue
		}

		if !assigned {
			if i+1 >= len(args) {
				break
			}

			i++
			value = args[i]
		}

		path = kong.ExpandPath(value)
	}

	return path
}
