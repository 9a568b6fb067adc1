package maker

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/log"
)

// Hook is the environment a pre or post command runs in.
type Hook struct {
	// FS is the file system #exists and #include read while the command is
	// expanded. Nil means the operating system file system.
	FS afero.Fs
	// Vars are expanded into the command and exported to its environment.
	Vars lang.Vars
	// TemplateDir is the root of the template being loaded. Relative program
	// paths resolve against it, and it is prepended to PATH.
	TemplateDir string
	// WorkDir is the working directory of the command.
	WorkDir string

	// Stdout and Stderr receive the command output. Nil discards it.
	// Stderr is also captured for the error returned on failure.
	Stdout, Stderr io.Writer
}

// RunCommand expands command with h.Vars, splits it into words the way a
// POSIX shell would, and runs the result. A command that expands to blank
// text does nothing.
func RunCommand(ctx context.Context, command string, h Hook) error {
	fsys := h.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	line, err := lang.NewScope(fsys, h.TemplateDir, h.Vars).ExpandString(command)
	if err != nil {
		return ErrExpand.Wrap(err).With(slog.String("command", command))
	}

	if strings.TrimSpace(line) == "" {
		log.DebugContext(ctx, "skip hook", slog.String("command", command))

		return nil
	}

	argv, err := shellquote.Split(line)
	if err != nil {
		return ErrSplitCommand.Wrap(err).With(slog.String("command", line))
	}

	prog := resolveProgram(argv[0], h.TemplateDir)

	cmd := exec.CommandContext(ctx, prog, argv[1:]...)
	cmd.Dir = h.WorkDir
	cmd.Env = hookEnviron(os.Environ(), h)
	cmd.Stdout = h.Stdout

	var stderr bytes.Buffer

	cmd.Stderr = &stderr
	if h.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, h.Stderr)
	}

	log.InfoContext(ctx, "run",
		slog.String("command", line),
		slog.String("dir", h.WorkDir),
	)

	err = cmd.Run()
	if err != nil {
		return ErrCommandFailed.Wrap(err).With(
			slog.String("command", line),
			slog.String("stderr", strings.TrimSpace(stderr.String())),
		)
	}

	return nil
}

// resolveProgram joins prog to dir when prog is a relative path, meaning it
// starts with a dot or contains a separator. Bare names are left for PATH.
func resolveProgram(prog, dir string) string {
	if filepath.IsAbs(prog) {
		return prog
	}

	if strings.HasPrefix(prog, ".") || strings.ContainsRune(prog, '/') ||
		strings.ContainsRune(prog, filepath.Separator) {
		return filepath.Join(dir, prog)
	}

	return prog
}

// hookEnviron returns base with the variables of h appended and PATH
// prefixed with the template directory. Later entries win in os/exec.
func hookEnviron(base []string, h Hook) []string {
	env := slices.Concat(base, h.Vars.Environ())

	var path string

	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "PATH="); ok {
			path = v
		}
	}

	if h.TemplateDir != "" {
		path = mung.Make(
			mung.WithSubjectItems(path),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(h.TemplateDir),
		).String()
	}

	return append(env, "PATH="+path)
}
