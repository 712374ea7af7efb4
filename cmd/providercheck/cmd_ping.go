package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"

	"portfolio-backend/internal/llm"
)

// PingCmd runs the executor once per provider.
type PingCmd struct {
	Provider string `help:"Only ping the named provider"`
	Message  string `default:"Hello! Reply with one short sentence." help:"Message to send"`
}

func (c *PingCmd) Run(ctx *kong.Context, cli *CLI) error {
	e, err := cli.env()
	if err != nil {
		return err
	}

	transports, closeTransports := e.transports()
	defer closeTransports()
	executor := llm.NewExecutor(transports, llm.DefaultRetryPolicy(), e.logger)
	req := e.request(c.Message)

	var (
		pinged int
		failed int
	)
	for _, p := range e.cfg.Registry().Providers() {
		if c.Provider != "" && p.Name != c.Provider {
			continue
		}
		pinged++

		callCtx, cancel := context.WithTimeout(context.Background(), e.cfg.RequestTimeout)
		start := time.Now()
		res, err := executor.Execute(callCtx, p, req)
		cancel()

		if err != nil {
			failed++
		}
		fmt.Println(renderPing(pingReport{
			Provider: p,
			Attempts: res.Attempts,
			Latency:  time.Since(start),
			Reply:    res.Text,
			Err:      err,
		}))
		fmt.Println()
	}

	if pinged == 0 {
		if c.Provider != "" {
			return fmt.Errorf("no provider named %q", c.Provider)
		}
		return fmt.Errorf("no providers configured")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d providers failed", failed, pinged)
	}
	return nil
}
