package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/app"
	pensiond "github.com/pensionledger/weave/cmd/pensiond/app"
	"github.com/pensionledger/weave/commands"
	"github.com/pensionledger/weave/commands/server"
	"github.com/pensionledger/weave/errors"
	"github.com/pensionledger/weave/x/cash"
	"github.com/pensionledger/weave/x/pension"
	"github.com/tendermint/tendermint/libs/log"
)

type command struct {
	help string
	run  func(logger log.Logger, home string, args []string) error
}

var cmds = map[string]command{
	"init": {
		help: "write the ledger app_state into the genesis file: init [-i] [ticker] [owner hex address]",
		run: func(logger log.Logger, home string, args []string) error {
			return server.InitCmd(pensiond.GenInitOptions, logger, home, args)
		},
	},
	"start": {
		help: "serve the ledger over the ABCI socket: start [-bind addr] [-metrics addr] [-debug]",
		run: func(logger log.Logger, home string, args []string) error {
			return server.StartCmd(pensiond.GenerateApp, logger, home, args)
		},
	},
	"validate": {
		help: "load genesis files into a scratch store: validate <genesis.json>...",
		run: func(_ log.Logger, _ string, args []string) error {
			genesis := app.ChainInitializers(&cash.Initializer{}, &pension.Initializer{})
			return server.ValidateGenesis(genesis, args)
		},
	},
	"testgen": {
		help: "write example encodings for client libraries: testgen <dir>",
		run: func(_ log.Logger, _ string, args []string) error {
			return commands.TestGenCmd(pensiond.Examples(), args)
		},
	},
	"version": {
		help: "print the version",
		run: func(log.Logger, string, []string) error {
			fmt.Println(weave.Version())
			return nil
		},
	},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "pensiond runs a pension ledger node.\n\nUsage: pensiond [flags] <command> [args]\n\nCommands:\n")
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-9s %s\n", name, cmds[name].help)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	home := flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".pensiond"), "directory of the node files")
	logLevel := flag.String("log_level", "info", "lowest logged level: debug, info, error or none")
	flag.Usage = usage
	flag.Parse()

	if err := run(*home, *logLevel, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n\n", err)
		usage()
		os.Exit(1)
	}
}

func run(home, logLevel string, args []string) error {
	if len(args) == 0 {
		return errors.Wrap(errors.ErrInput, "missing command")
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		return errors.Wrapf(errors.ErrInput, "unknown command %q", args[0])
	}
	level, err := log.AllowLevel(logLevel)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), level).With("module", "pensiond")
	return cmd.run(logger, home, args[1:])
}
