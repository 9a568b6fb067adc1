package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/makemake/lang"
	"github.com/ardnew/makemake/store"
)

func TestAlias_Run(t *testing.T) {
	e := newTestEnv(t, PromptAsk)

	set := &AliasSet{Name: "gocli", Template: "go"}
	set.Define = []string{"kind=cli", "bin"}
	require.NoError(t, set.Run(e.ctx))
	require.NoError(t, (&AliasSet{Name: "web", Template: "node"}).Run(e.ctx))

	saved, err := store.LoadConfig(e.FS, e.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]store.Alias{
		"gocli": {Template: "go", Vars: lang.Vars{"kind": "cli", "bin": ""}},
		"web":   {Template: "node"},
	}, saved.Aliases)

	require.NoError(t, AliasList{}.Run(e.ctx))
	assert.Equal(t, "gocli -> go -D bin= -D kind=cli\nweb -> node\n", e.stdout.String())

	require.NoError(t, (&AliasRm{Name: "web"}).Run(e.ctx))
	require.ErrorIs(t, (&AliasRm{Name: "web"}).Run(e.ctx), store.ErrAliasNotFound)

	saved, err = store.LoadConfig(e.FS, e.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"gocli"}, saved.AliasNames())

	err = (&AliasSet{Name: "bad/name", Template: "go"}).Run(e.ctx)
	require.ErrorIs(t, err, store.ErrInvalidName)
}
