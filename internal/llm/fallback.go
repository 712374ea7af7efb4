package llm

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// Responder supplies a reply when no provider could.
type Responder interface {
	Pick(message string) string
}

// DefaultCannedReplies is the generic pool used when nothing else is configured.
var DefaultCannedReplies = []string{
	"I'd be happy to help you learn more about my projects and technical expertise!",
	"That's a great question about my work. Let me tell you about my experience with modern web technologies.",
	"I specialize in full-stack development with React, Next.js, and various backend technologies. What specific aspect interests you?",
	"My portfolio showcases projects in web development, mobile apps, and AI integration. Each project demonstrates different technical skills and problem-solving approaches.",
	"I have extensive experience with TypeScript, Python, and cloud technologies like AWS. I'm always excited to discuss technical implementations and best practices.",
	"As a professional developer, I focus on creating scalable, maintainable solutions using modern development practices and clean code principles.",
	"I'm passionate about leveraging AI and machine learning to create innovative solutions. My projects often incorporate cutting-edge technologies.",
	"Quality and user experience are paramount in my development approach. I believe in thorough testing, documentation, and continuous improvement.",
}

// CannedResponder picks uniformly at random from a fixed pool.
type CannedResponder struct {
	replies []string
}

func NewCannedResponder(replies []string) *CannedResponder {
	pool := make([]string, 0, len(replies))
	for _, r := range replies {
		if r != "" {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, DefaultCannedReplies...)
	}
	return &CannedResponder{replies: pool}
}

func (c *CannedResponder) Pick(string) string {
	return c.replies[rand.Intn(len(c.replies))]
}

// Options tunes the requests the Controller sends.
type Options struct {
	Persona     string
	MaxTokens   int
	Temperature float32
}

// Outcome records how a reply was produced.
type Outcome struct {
	Text     string
	Provider string // empty when the canned responder answered
	Attempts int    // total provider attempts across the chain
	Fallback bool
	Failures []error
}

// Controller walks the registry in order and absorbs every failure, so its
// callers always get text back.
type Controller struct {
	registry *Registry
	executor *Executor
	fallback Responder
	opts     Options
	logger   *slog.Logger
}

func NewController(registry *Registry, executor *Executor, fallback Responder, opts Options, logger *slog.Logger) *Controller {
	if fallback == nil {
		fallback = NewCannedResponder(nil)
	}
	if opts.Persona == "" {
		opts.Persona = DefaultPersona
	}
	return &Controller{
		registry: registry,
		executor: executor,
		fallback: fallback,
		opts:     opts,
		logger:   logger,
	}
}

// Reply returns assistant text for message. It never fails.
func (c *Controller) Reply(ctx context.Context, message, contextBlock string) string {
	return c.Respond(ctx, message, contextBlock).Text
}

// Respond is Reply with the bookkeeping exposed.
func (c *Controller) Respond(ctx context.Context, message, contextBlock string) Outcome {
	var out Outcome

	req := Request{
		System:      BuildSystemPrompt(c.opts.Persona, contextBlock),
		User:        message,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	}

	providers := c.registry.Providers()
	if len(providers) == 0 {
		c.logger.Info("no providers configured, using canned reply")
	}

	for _, p := range providers {
		if ctx.Err() != nil {
			c.logger.Warn("request context done, skipping remaining providers", slog.Any("error", ctx.Err()))
			break
		}

		start := time.Now()
		res, err := c.executor.Execute(ctx, p, req)
		out.Attempts += res.Attempts
		if err == nil {
			c.logger.Info("provider answered",
				slog.String("provider", p.Name),
				slog.Int("attempts", res.Attempts),
				slog.Duration("latency", time.Since(start)),
			)
			out.Text = res.Text
			out.Provider = p.Name
			return out
		}

		out.Failures = append(out.Failures, err)
		c.logger.Error("provider failed, trying next",
			slog.String("provider", p.Name),
			slog.Int("attempts", res.Attempts),
			slog.String("class", string(Classify(err))),
			slog.Any("error", err),
		)
	}

	if len(providers) > 0 {
		c.logger.Warn("all providers failed, using canned reply", slog.Int("providers", len(providers)))
	}
	out.Text = c.fallback.Pick(message)
	out.Fallback = true
	return out
}
