package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/michaelliao/eth-smt/cli/smt"
	"github.com/michaelliao/eth-smt/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "SMT\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates an instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "smt"
	ctl.Version = config.Version
	ctl.Usage = "Versioned sparse Merkle trie over 160-bit addresses"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, smt.NewCommands()...)
	return ctl
}
