package llm

import "context"

// Transports dispatches a call to the Caller registered for the provider's
// Kind. An empty Kind means KindOpenAI.
type Transports map[Kind]Caller

func (t Transports) Complete(ctx context.Context, p Provider, req Request) (string, error) {
	kind := p.Kind
	if kind == "" {
		kind = KindOpenAI
	}
	caller, ok := t[kind]
	if !ok {
		// A misconfigured kind cannot succeed on retry.
		return "", &ProviderError{Provider: p.Name, Class: ClassMalformed, Detail: "no transport for kind " + string(kind)}
	}
	return caller.Complete(ctx, p, req)
}
