package model

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	var cfg Config = DefaultConfig()

	if cfg.Evidence.SimilarityThreshold != 0.6 {
		t.Errorf("evidence similarity threshold = %f, want 0.6", cfg.Evidence.SimilarityThreshold)
	}
	if cfg.Narrative.StoryThreshold != 0.7 {
		t.Errorf("story threshold = %f, want 0.7", cfg.Narrative.StoryThreshold)
	}
	if cfg.Pipeline.SoftTimeout != 30*time.Second {
		t.Errorf("soft timeout = %s, want 30s", cfg.Pipeline.SoftTimeout)
	}
	if cfg.Targets.TotalTime != 2000*time.Millisecond {
		t.Errorf("target total time = %s, want 2s", cfg.Targets.TotalTime)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should default to enabled")
	}
}

func TestDefaultConfig_IndependentCopies(t *testing.T) {
	a := DefaultConfig()
	a.Narrative.MinCoherence = 0.99

	b := DefaultConfig()
	if b.Narrative.MinCoherence != 0.6 {
		t.Errorf("defaults leaked between copies: min coherence = %f", b.Narrative.MinCoherence)
	}
}
