package maker

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/pkg"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("hook tests use sh")
	}
}

func TestRunCommand(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()

	var stdout bytes.Buffer

	h := Hook{
		Vars:        lang.Vars{"name": "Go", "greeting": "hi there"},
		TemplateDir: t.TempDir(),
		WorkDir:     dir,
		Stdout:      &stdout,
	}

	err := RunCommand(t.Context(),
		`sh -c 'echo ${name} > out.txt; printf %s "$greeting"'`, h)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Go\n", string(data))
	assert.Equal(t, "hi there", stdout.String())
}

func TestRunCommand_TemplateProgram(t *testing.T) {
	skipWithoutShell(t)

	tmpl := t.TempDir()
	script := "#!/bin/sh\nbasename \"$(pwd)\" > made\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpl, "setup.sh"), []byte(script), 0o755))

	work := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.Mkdir(work, 0o755))

	h := Hook{TemplateDir: tmpl, WorkDir: work}

	require.NoError(t, RunCommand(t.Context(), "./setup.sh", h))

	data, err := os.ReadFile(filepath.Join(work, "made"))
	require.NoError(t, err)
	assert.Equal(t, "proj\n", string(data))

	// Child processes find template programs on PATH.
	require.NoError(t, os.Remove(filepath.Join(work, "made")))
	require.NoError(t, RunCommand(t.Context(), "sh -c setup.sh", h))
	assert.FileExists(t, filepath.Join(work, "made"))
}

func TestRunCommand_FS(t *testing.T) {
	skipWithoutShell(t)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/tmpl/flag", []byte("x"), 0o644))

	work := t.TempDir()

	for _, name := range []string{"flag", "missing"} {
		h := Hook{
			FS:          fsys,
			Vars:        lang.Vars{"f": name},
			TemplateDir: "/tmpl",
			WorkDir:     work,
		}

		err := RunCommand(t.Context(),
			`sh -c 'echo ${#exists(f) ? 'yes' : 'no'} >> out.txt'`, h)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(work, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "yes\nno\n", string(data))
}

func TestRunCommand_Errors(t *testing.T) {
	skipWithoutShell(t)

	h := Hook{WorkDir: t.TempDir()}

	err := RunCommand(t.Context(), `sh -c 'echo oops >&2; exit 3'`, h)
	require.ErrorIs(t, err, ErrCommandFailed)

	var e *pkg.Error
	require.True(t, errors.As(err, &e))

	var stderr string

	for _, a := range e.Attrs() {
		if a.Key == "stderr" {
			stderr = a.Value.String()
		}
	}

	assert.Equal(t, "oops", stderr)

	err = RunCommand(t.Context(), `echo 'unterminated`, h)
	require.ErrorIs(t, err, ErrSplitCommand)

	err = RunCommand(t.Context(), `${'open`, h)
	require.ErrorIs(t, err, ErrExpand)
}

func TestRunCommand_Blank(t *testing.T) {
	h := Hook{WorkDir: t.TempDir()}

	require.NoError(t, RunCommand(t.Context(), "${missing}", h))
	require.NoError(t, RunCommand(t.Context(), "  ${unset ?? ' '} ", h))
}

func TestResolveProgram(t *testing.T) {
	dir := filepath.FromSlash("/tmpl")

	tests := []struct {
		prog string
		want string
	}{
		{prog: "git", want: "git"},
		{prog: "./setup.sh", want: filepath.Join(dir, "setup.sh")},
		{prog: "scripts/setup.sh", want: filepath.Join(dir, "scripts", "setup.sh")},
		{prog: ".hidden", want: filepath.Join(dir, ".hidden")},
	}

	for _, tt := range tests {
		t.Run(tt.prog, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveProgram(tt.prog, dir))
		})
	}

	abs, err := filepath.Abs("bin")
	require.NoError(t, err)
	assert.Equal(t, abs, resolveProgram(abs, dir))
}

func TestHookEnviron(t *testing.T) {
	sep := string(os.PathListSeparator)
	base := []string{"HOME=/home/u", "PATH=/usr/bin" + sep + "/bin"}

	env := hookEnviron(base, Hook{
		Vars:        lang.Vars{"b": "2", "a": "1"},
		TemplateDir: "/tmpl",
	})

	assert.Equal(t, []string{
		"HOME=/home/u",
		"PATH=/usr/bin" + sep + "/bin",
		"a=1",
		"b=2",
		"PATH=/tmpl" + sep + "/usr/bin" + sep + "/bin",
	}, env)

	last := env[len(env)-1]
	assert.True(t, strings.HasPrefix(last, "PATH=/tmpl"))

	// Unchanged base.
	assert.Len(t, base, 2)
}
