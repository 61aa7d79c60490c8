// Package cmd implements the uisync CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (serve, tree, version). Each subcommand
// parses its own arguments from a docopt usage text.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docopt/docopt-go"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	// Usage is a docopt usage text. Its patterns start with "uisync <name>".
	Usage string
	Run   func(opts docopt.Opts) error
}

var rootCmd = struct {
	Long        string
	Usage       string
	SubCommands []*Command
}{
	Long: `uisync serves server-side component trees to thin clients.

Application state lives on the server. Clients send user input, the server
answers with the parts of the tree that changed.

Use "uisync <command> --help" for more information about a command.`,
	Usage: "uisync [glog flags] <command> [options]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// stdout is where commands print results.
var stdout io.Writer = os.Stdout

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with args, the arguments left after glog flags.
func Execute(args []string) error {
	if len(args) == 0 {
		printHelp()
		return nil
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
		return nil
	case "--version":
		args = []string{"version"}
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp()
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	parser := &docopt.Parser{HelpHandler: docopt.NoHelpHandler, SkipHelpFlags: true}
	opts, err := parser.ParseArgs(cmd.Usage, args, "")
	if err != nil {
		printCommandHelp(cmd)
		return fmt.Errorf("%s: invalid arguments %q", cmdName, strings.Join(args[1:], " "))
	}
	return cmd.Run(opts)
}

func printHelp() {
	fmt.Fprintln(stdout, rootCmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range rootCmd.SubCommands {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  --version            Show version information")
	fmt.Fprintln(stdout, "  -v=N                 glog verbosity (2 traces every cycle and call)")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Environment:")
	fmt.Fprintln(stdout, "  UISYNC_AUTH_SECRET   Session token secret (overrides auth.secret)")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  uisync serve                   Serve the demo app on :8080")
	fmt.Fprintln(stdout, "  uisync -v=2 serve --addr=:9000 Serve with cycle tracing")
	fmt.Fprintln(stdout, "  uisync tree                    Print the demo tree as JSON")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, cmd.Usage)
}
