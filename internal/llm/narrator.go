package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/kakashi3lite/newscurator/internal/model"
)

// Narrator renders human-readable narrative prose from structured evidence
// summaries. The pipeline functions with the heuristic narrative when no
// provider is configured or the provider fails.
type Narrator struct {
	provider Provider
	config   Config
}

// NewNarrator creates a Narrator. Returns an error only for a misconfigured
// provider; a disabled provider yields a working, pass-through Narrator.
func NewNarrator(config Config) (*Narrator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Narrator{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (n *Narrator) IsEnabled() bool {
	return n != nil && n.provider != nil
}

// Narrate rewrites the summary's narrative as prose. On any failure the
// original heuristic narrative is returned unchanged with the error for
// logging; the caller treats it as a stage-local degradation.
func (n *Narrator) Narrate(ctx context.Context, summary model.EvidenceSummary) (string, error) {
	if !n.IsEnabled() {
		return summary.Narrative, nil
	}
	if len(summary.Citations) == 0 {
		return summary.Narrative, nil
	}

	resp, err := n.provider.Generate(ctx, GenerateRequest{
		Prompt: buildNarratePrompt(summary),
	})
	if err != nil {
		return summary.Narrative, err
	}
	if resp.Text == "" {
		return summary.Narrative, nil
	}
	return resp.Text, nil
}

// buildNarratePrompt constrains the model to the cited claims only.
func buildNarratePrompt(summary model.EvidenceSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a 2-3 sentence neutral news summary for the query %q using ONLY these cited claims:\n", summary.Query)
	for _, citation := range summary.Citations {
		fmt.Fprintf(&b, "- %s (sources: %s, confidence %.2f)\n",
			citation.Claim, strings.Join(citation.Sources, ", "), citation.Confidence)
	}
	b.WriteString("Do not add facts that are not in the claims. If evidence is thin, say so.")
	return b.String()
}
