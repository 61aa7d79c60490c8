package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docopt/docopt-go"
	"golang.org/x/text/language"

	"github.com/go-drift/uisync/cmd/uisync/internal/demo"
	"github.com/go-drift/uisync/pkg/engine"
)

func init() {
	RegisterCommand(&Command{
		Name:  "tree",
		Short: "Print the first render of the demo app",
		Long: `Print the first render of the demo app.

Builds a throwaway session, runs one render cycle and prints the response
as indented JSON, exactly as a client would receive it after connecting.`,
		Usage: `Usage:
  uisync tree [--locale=<tag>]

Options:
  --locale=<tag>  BCP 47 locale of the session [default: en-US].`,
		Run: runTree,
	})
}

func runTree(opts docopt.Opts) error {
	tag, _ := opts.String("--locale")
	locale, err := language.Parse(tag)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", tag, err)
	}

	manager := engine.NewManager(demo.Build, 1, engine.WithLocale(locale))
	defer manager.CloseAll()

	ctx := context.Background()
	s, err := manager.Create(ctx)
	if err != nil {
		return err
	}
	resp, err := s.Render(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
