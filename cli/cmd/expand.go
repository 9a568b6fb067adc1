package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/log"
	"github.com/ardnew/makemake/maker"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Expand expands a file or stdin to stdout.
type Expand struct {
	Source string `arg:"" default:"-" help:"File to expand, or '-' for stdin." optional:""`
	Root   string `help:"Directory #include and #make resolve against (default: the directory of the source)." type:"path"`

	Variables `embed:""`
}

// Run executes the expand command.
func (x *Expand) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	root := x.Root

	if root == "" && x.Source != stdinSource {
		root = filepath.Dir(x.Source)
	}

	scope, err := commandScope(env, root, x.Variables)
	if err != nil {
		return err
	}

	if x.Source == stdinSource {
		return scope.Expand(env.Stdout, env.Stdin)
	}

	src, err := filepath.Abs(x.Source)
	if err != nil {
		return lang.ErrReadFile.Wrap(err).With(slog.String("path", x.Source))
	}

	return scope.ExpandFile(env.Stdout, src)
}

// Eval evaluates a bare expression and prints its rendering.
type Eval struct {
	Expr string `arg:"" help:"Expression, without the enclosing ${ and }."`
	Root string `help:"Directory #include and #make resolve against (default: the working directory)." type:"path"`

	Variables `embed:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	expr, err := lang.ParseExpr(e.Expr)
	if err != nil {
		return err
	}

	scope, err := commandScope(env, e.Root, e.Variables)
	if err != nil {
		return err
	}

	out, ok, err := scope.Eval(expr)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "eval",
		slog.String("expr", expr.String()),
		slog.Bool("present", ok),
	)

	_, err = fmt.Fprintln(env.Stdout, out)
	if err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// commandScope returns the scope of expand and eval rooted at root, which
// defaults to the working directory. The variables are the internal ones for
// the working directory, overridden by the config variables and then by
// the -D flags.
func commandScope(env *Env, root string, v Variables) (*lang.Scope, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, ErrDestination.Wrap(err)
	}

	if root == "" {
		root = wd
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, ErrDestination.Wrap(err).With(slog.String("dir", root))
	}

	vars := lang.Vars{}.Merge(
		maker.InternalVars(runtime.GOOS, wd),
		env.Config.Vars,
		v.vars(),
	)

	return lang.NewScope(env.FS, root, vars), nil
}
