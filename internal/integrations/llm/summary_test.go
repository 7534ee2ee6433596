package llm

import "testing"

func TestSummarizeMissingNothingToSummarize(t *testing.T) {
	got, err := SummarizeMissing("key", "model", nil)
	if err != nil {
		t.Fatalf("SummarizeMissing failed: %v", err)
	}
	if got != "" {
		t.Fatalf("expected no summary for an empty run, got %q", got)
	}
}
