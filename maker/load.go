package maker

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/log"
)

// Load instantiates the template at src into dst.
//
// Without a manifest the tree is copied as is. Otherwise the variables are
// merged with [MergeVars], dst is created, and the pre command, the walk and
// the post command run in that order. The output of the commands goes to
// stdout and stderr.
//
// A failure leaves anything already written in place.
func Load(
	ctx context.Context,
	fsys afero.Fs,
	src, dst string,
	vars lang.Vars,
	stdout, stderr io.Writer,
) error {
	m, err := ReadManifest(fsys, src)
	if err != nil {
		return err
	}

	if m == nil {
		log.DebugContext(ctx, "no manifest", slog.String("src", src))

		return CopyTree(ctx, fsys, src, dst)
	}

	merged, err := MergeVars(fsys, src, m, vars, dst)
	if err != nil {
		return err
	}

	err = fsys.MkdirAll(dst, 0o755)
	if err != nil {
		return ErrCopy.Wrap(err).With(slog.String("dst", dst))
	}

	hook := Hook{
		FS:          fsys,
		Vars:        merged,
		TemplateDir: src,
		WorkDir:     dst,
		Stdout:      stdout,
		Stderr:      stderr,
	}

	if m.PreCommand != "" {
		err = RunCommand(ctx, m.PreCommand, hook)
		if err != nil {
			return err
		}
	}

	err = MakeTree(ctx, fsys, src, dst, m, merged)
	if err != nil {
		return err
	}

	if m.PostCommand != "" {
		err = RunCommand(ctx, m.PostCommand, hook)
		if err != nil {
			return err
		}
	}

	return nil
}
