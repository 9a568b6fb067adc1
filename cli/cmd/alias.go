package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/makemake/log"
	"github.com/ardnew/makemake/store"
)

// Alias manages template aliases in the config file.
type Alias struct {
	Set  AliasSet  `cmd:"" help:"Add or replace an alias."`
	Rm   AliasRm   `aliases:"remove" cmd:"" help:"Remove an alias."`
	List AliasList `aliases:"ls" cmd:"" default:"1" help:"List aliases."`
}

// AliasSet adds or replaces an alias.
type AliasSet struct {
	Name     string `arg:"" help:"Alias name."`
	Template string `arg:"" help:"Template the alias refers to."`

	Variables `embed:""`
}

// Run executes the alias set command.
func (a *AliasSet) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	alias := store.Alias{Template: a.Template}
	if len(a.Define) > 0 {
		alias.Vars = a.vars()
	}

	err = env.Config.SetAlias(a.Name, alias)
	if err != nil {
		return err
	}

	err = env.Config.Save(env.FS, env.ConfigPath)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "set alias",
		slog.String("alias", a.Name),
		slog.String("template", a.Template),
		a.attr(),
	)

	return nil
}

// AliasRm removes an alias.
type AliasRm struct {
	Name string `arg:"" help:"Alias name."`
}

// Run executes the alias rm command.
func (a *AliasRm) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	err = env.Config.RemoveAlias(a.Name)
	if err != nil {
		return err
	}

	return env.Config.Save(env.FS, env.ConfigPath)
}

// AliasList prints the aliases.
type AliasList struct{}

// Run executes the alias list command.
func (AliasList) Run(ctx context.Context) error {
	env, err := envFrom(ctx)
	if err != nil {
		return err
	}

	for _, name := range env.Config.AliasNames() {
		a := env.Config.Aliases[name]

		line := name + " -> " + a.Template

		if len(a.Vars) > 0 {
			defs := make([]string, 0, len(a.Vars))
			for _, k := range slices.Sorted(maps.Keys(a.Vars)) {
				defs = append(defs, "-D "+k+"="+a.Vars[k])
			}

			line += " " + strings.Join(defs, " ")
		}

		_, err = fmt.Fprintln(env.Stdout, line)
		if err != nil {
			return ErrWrite.Wrap(err)
		}
	}

	return nil
}
