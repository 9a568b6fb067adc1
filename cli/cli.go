package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/makemake/cli/cmd"
	"github.com/ardnew/makemake/pkg"
)

// CLI is the top-level command-line interface for makemake.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Store  string     `default:"${store}"  help:"Template store directory." type:"path"`
	Config string     `default:"${config}" help:"Configuration file."       type:"path"`
	Prompt cmd.Prompt `default:"ask"       help:"Answer confirmations: yes, no or ask." enum:"yes,no,ask" short:"p"`

	Load   cmd.Load   `cmd:"" default:"withargs" help:"Load a template into a directory."`
	Create cmd.Create `cmd:""                    help:"Store a directory as a template."`
	Remove cmd.Remove `cmd:"" aliases:"rm"       help:"Remove a template."`
	Edit   cmd.Edit   `cmd:""                    help:"Copy a template out for editing."`
	List   cmd.List   `cmd:"" aliases:"ls"       help:"List templates."`
	Show   cmd.Show   `cmd:""                    help:"Print the manifest of a template."`
	Alias  cmd.Alias  `cmd:""                    help:"Manage template aliases."`
	Expand cmd.Expand `cmd:""                    help:"Expand a file or stdin to stdout."`
	Eval   cmd.Eval   `cmd:""                    help:"Evaluate an expression."`
}

// Run executes the makemake CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	configFile := scanConfigPath(args, pkg.ConfigPath())

	vars := kong.Vars{
		cmd.StoreIdentifier:  pkg.StorePath(),
		cmd.ConfigIdentifier: configFile,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before parsing so that parse errors are logged
	// the way the user asked for.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// The provider runs when a command is run, after ctx carries the
		// command environment.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFile),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	err = mkdirAllRequired(cli.Store)
	if err != nil {
		return err
	}

	env, err := cmd.NewEnv(cli.Store, cli.Config, cli.Prompt)
	if err != nil {
		return err
	}

	ctx = cmd.WithEnv(ctx, env)

	return ktx.Run(ctx, &cli)
}
