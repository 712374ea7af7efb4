package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"portfolio-backend/internal/llm"
)

// AskCmd sends one message through the fallback controller.
type AskCmd struct {
	Message string `arg:"" help:"Message to ask the assistant"`
}

func (c *AskCmd) Run(ctx *kong.Context, cli *CLI) error {
	e, err := cli.env()
	if err != nil {
		return err
	}

	transports, closeTransports := e.transports()
	defer closeTransports()

	controller := llm.NewController(
		e.cfg.Registry(),
		llm.NewExecutor(transports, llm.DefaultRetryPolicy(), e.logger),
		llm.NewCannedResponder(e.cfg.CannedReplies),
		llm.Options{
			Persona:     e.cfg.Persona,
			MaxTokens:   e.cfg.MaxTokens,
			Temperature: float32(e.cfg.Temperature),
		},
		e.logger,
	)

	callCtx, cancel := context.WithTimeout(context.Background(), e.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	out := controller.Respond(callCtx, c.Message, e.cfg.ContextBlock)

	source := okStyle.Render(out.Provider)
	if out.Fallback {
		source = failStyle.Render("canned fallback")
	}
	fmt.Printf("%s  %s\n", source, dimStyle.Render(fmt.Sprintf("attempts %d · %s", out.Attempts, time.Since(start).Round(time.Millisecond))))
	for _, f := range out.Failures {
		fmt.Println(dimStyle.Render(fmt.Sprintf("  %s: %s", llm.Classify(f), f)))
	}
	fmt.Println(boxStyle.Render(out.Text))
	return nil
}
