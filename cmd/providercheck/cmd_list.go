package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// ListCmd prints the registry in trial order.
type ListCmd struct{}

func (c *ListCmd) Run(ctx *kong.Context, cli *CLI) error {
	e, err := cli.env()
	if err != nil {
		return err
	}

	registry := e.cfg.Registry()
	if registry.Len() == 0 {
		fmt.Println(dimStyle.Render("No providers configured; replies will come from the canned pool."))
	}
	for i, p := range registry.Providers() {
		fmt.Printf("%d. %s\n", i+1, renderProvider(p))
	}
	for _, name := range e.cfg.SkippedProviders {
		fmt.Println(dimStyle.Render("skipped " + name + ": api key variable not set"))
	}
	return nil
}
