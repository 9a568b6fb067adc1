package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/ardnew/makemake/log"
)

// Load instantiates a template into a directory.
type Load struct {
	Template string `arg:"" help:"Template or alias to load."`
	Dir      string `arg:"" default:"." help:"Destination directory." optional:"" type:"path"`

	Variables `embed:""`
}

// Run executes the load command.
func (l *Load) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	name, vars := env.Config.Resolve(l.Template)
	vars.Merge(l.vars())

	dst, err := filepath.Abs(l.Dir)
	if err != nil {
		return ErrDestination.Wrap(err).With(slog.String("dir", l.Dir))
	}

	ok, err := proceedInto(ctx, env, dst)
	if err != nil || !ok {
		return err
	}

	log.DebugContext(ctx, "load",
		slog.String("template", name),
		slog.String("alias", l.Template),
		l.attr(),
	)

	return env.Store.Load(ctx, name, dst, vars, env.Stdout, env.Stderr)
}

// Create stores a directory as a template.
type Create struct {
	Name string `arg:"" help:"Template name."`
	Dir  string `arg:"" default:"." help:"Directory to store." optional:"" type:"existingdir"`
}

// Run executes the create command.
func (c *Create) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	src, err := filepath.Abs(c.Dir)
	if err != nil {
		return ErrDestination.Wrap(err).With(slog.String("dir", c.Dir))
	}

	exists, err := env.Store.Exists(c.Name)
	if err != nil {
		return err
	}

	if exists {
		ok, err := confirm(ctx, env,
			fmt.Sprintf("Template %q exists. Overwrite?", c.Name))
		if err != nil || !ok {
			return err
		}
	}

	return env.Store.Create(ctx, c.Name, src)
}

// Remove deletes a template.
type Remove struct {
	Name string `arg:"" help:"Template name."`
}

// Run executes the remove command.
func (r *Remove) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	err = env.Store.Remove(r.Name)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "removed template", slog.String("name", r.Name))

	return nil
}

// Edit copies a stored template, unexpanded, into a directory.
type Edit struct {
	Name string `arg:"" help:"Template name."`
	Dir  string `arg:"" help:"Destination directory (default: the template name)." optional:"" type:"path"`
}

// Run executes the edit command.
func (e *Edit) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	dir := e.Dir
	if dir == "" {
		dir = e.Name
	}

	dst, err := filepath.Abs(dir)
	if err != nil {
		return ErrDestination.Wrap(err).With(slog.String("dir", dir))
	}

	ok, err := proceedInto(ctx, env, dst)
	if err != nil || !ok {
		return err
	}

	return env.Store.Edit(ctx, e.Name, dst)
}

// List prints the stored templates.
type List struct {
	Aliases bool `help:"Also list aliases." short:"a"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	names, err := env.Store.List()
	if err != nil {
		return err
	}

	r := lipgloss.NewRenderer(env.Stdout)
	nameStyle := r.NewStyle()
	dimStyle := r.NewStyle()

	if env.Color {
		nameStyle = nameStyle.Bold(true).Foreground(lipgloss.Color("6"))
		dimStyle = dimStyle.Faint(true)
	}

	for _, name := range names {
		_, err = fmt.Fprintln(env.Stdout, nameStyle.Render(name))
		if err != nil {
			return ErrWrite.Wrap(err)
		}
	}

	if !l.Aliases {
		return nil
	}

	for _, name := range env.Config.AliasNames() {
		a := env.Config.Aliases[name]

		_, err = fmt.Fprintf(env.Stdout, "%s %s\n",
			nameStyle.Render(name), dimStyle.Render("-> "+a.Template))
		if err != nil {
			return ErrWrite.Wrap(err)
		}
	}

	return nil
}

// Show prints the manifest of a template.
type Show struct {
	Name   string `arg:"" help:"Template name."`
	Format string `default:"json" enum:"json,yaml" help:"Output format." short:"f"`
}

// Run executes the show command.
func (s *Show) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	m, err := env.Store.Manifest(s.Name)
	if err != nil {
		return err
	}

	if m == nil {
		return ErrNoManifest.With(slog.String("name", s.Name))
	}

	var data []byte

	switch s.Format {
	case "yaml":
		data, err = yaml.MarshalContext(ctx, m)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		data, err = json.MarshalIndent(m, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		data = append(data, '\n')
	}

	_, err = env.Stdout.Write(data)
	if err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// proceedInto reports whether writing into dir may go ahead, asking first
// when dir already has content.
func proceedInto(ctx context.Context, env *Env, dir string) (bool, error) {
	exists, err := afero.Exists(env.FS, dir)
	if err != nil {
		return false, ErrDestination.Wrap(err).With(slog.String("dir", dir))
	}

	if !exists {
		return true, nil
	}

	empty, err := afero.IsEmpty(env.FS, dir)
	if err != nil {
		return false, ErrDestination.Wrap(err).With(slog.String("dir", dir))
	}

	if empty {
		return true, nil
	}

	ok, err := confirm(ctx, env,
		fmt.Sprintf("Directory %s is not empty. Continue?", dir))
	if err != nil {
		return false, err
	}

	if !ok {
		log.InfoContext(ctx, "canceled", slog.String("dir", dir))
	}

	return ok, nil
}
