package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kakashi3lite/newscurator/internal/cache"
	"github.com/kakashi3lite/newscurator/internal/model"
)

// mockProvider implements Provider for tests.
type mockProvider struct {
	name      string
	available bool
	response  *GenerateResponse
	err       error
	calls     int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return m.available }

func testSummary() model.EvidenceSummary {
	return model.EvidenceSummary{
		Query:     "dam failure",
		Narrative: "Officials confirmed the dam failure flooded three villages.",
		Citations: []model.Citation{
			{Claim: "Officials confirmed the dam failure.", Sources: []string{"Wire"}, Confidence: 0.9},
		},
		Confidence: 0.9,
	}
}

func TestNewNarrator_Disabled(t *testing.T) {
	narrator, err := NewNarrator(Config{Provider: ""})
	if err != nil {
		t.Fatalf("expected no error for disabled provider, got %v", err)
	}
	if narrator.IsEnabled() {
		t.Error("expected narrator disabled with empty provider")
	}

	text, err := narrator.Narrate(context.Background(), testSummary())
	if err != nil {
		t.Errorf("disabled narrator must not error, got %v", err)
	}
	if text != testSummary().Narrative {
		t.Errorf("disabled narrator must pass through the heuristic narrative, got %q", text)
	}
}

func TestNewNarrator_UnknownProvider(t *testing.T) {
	if _, err := NewNarrator(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNarrator_ProviderFailureFallsBack(t *testing.T) {
	narrator := &Narrator{
		provider: &mockProvider{err: errors.New("service down")},
	}

	summary := testSummary()
	text, err := narrator.Narrate(context.Background(), summary)
	if err == nil {
		t.Error("expected the provider error surfaced for logging")
	}
	if text != summary.Narrative {
		t.Errorf("expected heuristic narrative on failure, got %q", text)
	}
}

func TestNarrator_UsesProviderText(t *testing.T) {
	narrator := &Narrator{
		provider: &mockProvider{response: &GenerateResponse{Text: "Generated prose.", Model: "m"}},
	}

	text, err := narrator.Narrate(context.Background(), testSummary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Generated prose." {
		t.Errorf("expected generated text, got %q", text)
	}
}

func TestBuildNarratePrompt_ClaimsOnly(t *testing.T) {
	prompt := buildNarratePrompt(testSummary())
	if !strings.Contains(prompt, "Officials confirmed the dam failure.") {
		t.Error("prompt must carry the cited claims")
	}
	if !strings.Contains(prompt, "dam failure") {
		t.Error("prompt must carry the query")
	}
}

func TestIsRateLimitError(t *testing.T) {
	if isRateLimitError(errors.New("connection refused")) {
		t.Error("network error must not be treated as rate limit")
	}
	if !isRateLimitError(errors.New("429: rate limit exceeded")) {
		t.Error("rate limit message must be recognized")
	}
}

func TestStaticAdvisor(t *testing.T) {
	a := NewStaticAdvisor()

	m, err := a.SelectModel(context.Background(), WorkloadClustering)
	if err != nil || m == "" {
		t.Errorf("expected a model for clustering workload, got %q err %v", m, err)
	}

	fallback, err := a.SelectModel(context.Background(), "unknown-workload")
	if err != nil || fallback == "" {
		t.Errorf("expected default model for unknown workload, got %q err %v", fallback, err)
	}
}

// countingAdvisor counts underlying selections.
type countingAdvisor struct{ calls int }

func (c *countingAdvisor) SelectModel(_ context.Context, _ string) (string, error) {
	c.calls++
	return "advised-model", nil
}

func TestCachedAdvisor_UsesCache(t *testing.T) {
	underlying := &countingAdvisor{}
	cached := NewCachedAdvisor(underlying, cache.NewAdvisorCache(time.Minute))

	for i := 0; i < 4; i++ {
		m, err := cached.SelectModel(context.Background(), WorkloadSummary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != "advised-model" {
			t.Errorf("expected advised-model, got %q", m)
		}
	}
	if underlying.calls != 1 {
		t.Errorf("expected 1 underlying selection, got %d", underlying.calls)
	}
}
