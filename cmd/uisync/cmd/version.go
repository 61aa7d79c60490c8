package cmd

import (
	"fmt"
	"runtime"

	"github.com/docopt/docopt-go"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Print version information",
		Long:  "Print the uisync version, build time and Go runtime.",
		Usage: `Usage:
  uisync version`,
		Run: runVersion,
	})
}

func runVersion(docopt.Opts) error {
	fmt.Fprintf(stdout, "uisync %s\n", Version)
	fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(stdout, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(stdout, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
