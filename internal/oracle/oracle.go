// Package oracle defines the reasoning-oracle boundary the orchestrator
// consults for tie-breaking and justification text. The oracle is a
// best-effort collaborator: every caller must tolerate its failure.
package oracle

import "context"

// Oracle answers free-text reasoning prompts. Implementations wrap an
// LLM provider; responses are parsed by the caller, so an oracle that
// returns unparseable text degrades selection quality but never
// correctness.
type Oracle interface {
	// Ask sends a prompt and returns the oracle's text response.
	Ask(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Oracle interface. Useful for
// tests and for embedding applications that bring their own client.
type Func func(ctx context.Context, prompt string) (string, error)

// Ask implements Oracle.
func (f Func) Ask(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
