package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/multitex/cmd/multitex/commands"
	ferrors "git.home.luguber.info/inful/multitex/internal/foundation/errors"
	"git.home.luguber.info/inful/multitex/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser, err := commands.NewParser(cli, version.String())
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = kctx.Run(&commands.Global{Out: os.Stdout}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
