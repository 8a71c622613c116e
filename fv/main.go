package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fundval/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op outside a completion request.
	subs := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		subs[c.Name()] = &complete.Command{Flags: map[string]complete.Predictor{}}
	}
	completer := &complete.Command{
		Sub: subs,
		Flags: map[string]complete.Predictor{
			"ledger-file":  predict.Files("*.jsonl"),
			"config-file":  predict.Files("*.yaml"),
			"snapshot-dir": predict.Dirs("*"),
			"reports-dir":  predict.Dirs("*"),
		},
	}
	completer.Complete("fv")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
