package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/logging"
)

// CLI represents the main CLI structure
type CLI struct {
	LogLevel string `default:"warn" help:"Log level (debug, info, warn, error)"`

	List ListCmd `cmd:"" help:"List configured providers"`
	Ping PingCmd `cmd:"" help:"Call each provider once through the retrying executor"`
	Ask  AskCmd  `cmd:"" help:"Run a message through the full fallback chain"`
}

// env is what every subcommand needs: loaded config and a logger.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (c *CLI) env() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &env{cfg: cfg, logger: logging.New(os.Stderr, c.LogLevel, "text")}, nil
}

func (e *env) transports() (llm.Transports, func()) {
	gemini := llm.NewGeminiCaller(e.logger)
	return llm.Transports{
		llm.KindOpenAI: llm.NewHTTPCaller(nil, e.cfg.ProviderTimeout, e.logger),
		llm.KindGemini: gemini,
	}, gemini.Close
}

func (e *env) request(message string) llm.Request {
	persona := e.cfg.Persona
	if persona == "" {
		persona = llm.DefaultPersona
	}
	return llm.Request{
		System:      llm.BuildSystemPrompt(persona, e.cfg.ContextBlock),
		User:        message,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: float32(e.cfg.Temperature),
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("providercheck"),
		kong.Description("Check the AI providers behind the portfolio assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
