// Package llm turns a user message into an assistant reply by calling remote
// chat-completion providers, retrying transient failures and falling back to
// canned replies when nothing answers.
package llm

import "context"

// Kind selects the wire transport used for a provider.
type Kind string

const (
	KindOpenAI Kind = "openai" // POST {base}/chat/completions
	KindGemini Kind = "gemini" // Google generative-ai SDK
)

// Provider is one configured chat-completion endpoint. Values are immutable
// once handed to a Registry.
type Provider struct {
	Name    string
	Kind    Kind
	APIKey  string
	BaseURL string
	Model   string
}

// Request is the provider-agnostic completion input.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Caller performs exactly one completion call against a provider.
// Failures should be *ProviderError so the executor can classify them.
type Caller interface {
	Complete(ctx context.Context, p Provider, req Request) (string, error)
}

// Registry holds the ordered provider list. Order is trial order. It is
// read-only after construction and safe to share across sessions.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	list := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.Kind == "" {
			p.Kind = KindOpenAI
		}
		list = append(list, p)
	}
	return &Registry{providers: list}
}

// Providers returns a copy of the configured providers in trial order.
func (r *Registry) Providers() []Provider {
	if r == nil {
		return nil
	}
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.providers)
}

// Names lists provider names in trial order, for logging.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.Len())
	for _, p := range r.Providers() {
		names = append(names, p.Name)
	}
	return names
}
