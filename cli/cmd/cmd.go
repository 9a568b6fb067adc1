package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/store"
)

// Env holds what every command needs besides its own arguments.
type Env struct {
	FS         afero.Fs
	Store      *store.Store
	Config     *store.Config
	ConfigPath string
	Prompt     Prompt

	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Interactive reports whether questions can be asked on Stdin.
	Interactive bool
	// Color reports whether Stdout is styled for a terminal.
	Color bool
	// Ask reads the answer to a question. Nil reads a line from the
	// terminal.
	Ask func(question string) (string, error)
}

// NewEnv returns an Env on the host filesystem and standard streams with the
// template store at storeDir and the config file at configPath.
func NewEnv(storeDir, configPath string, prompt Prompt) (*Env, error) {
	fsys := afero.NewOsFs()

	cfg, err := store.LoadConfig(fsys, configPath)
	if err != nil {
		return nil, err
	}

	return &Env{
		FS:          fsys,
		Store:       store.New(fsys, storeDir),
		Config:      cfg,
		ConfigPath:  configPath,
		Prompt:      prompt,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: isTerminal(os.Stdin),
		Color:       isTerminal(os.Stdout),
	}, nil
}

type envKey struct{}

// WithEnv returns a new context.Context containing env.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

func envFrom(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, ErrNoEnv
	}

	return env, nil
}

// Variables are the -D flags of a command.
type Variables struct {
	Define []string `help:"Define variable NAME, or NAME=VALUE." placeholder:"NAME[=VALUE]" sep:"none" short:"D"`
}

// vars returns the defined variables. A name without "=" is defined empty.
func (v Variables) vars() lang.Vars {
	vars := make(lang.Vars, len(v.Define))

	for _, def := range v.Define {
		name, value, _ := strings.Cut(def, "=")
		vars[name] = value
	}

	return vars
}

func (v Variables) attr() slog.Attr {
	return slog.Int("defines", len(v.Define))
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
