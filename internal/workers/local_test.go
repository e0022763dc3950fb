package workers

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestBuiltinRegistrationsAreValid(t *testing.T) {
	regs := Builtin()
	if len(regs) == 0 {
		t.Fatal("no built-in workers")
	}

	seen := make(map[string]bool)
	for _, reg := range regs {
		if err := reg.Capability.Validate(); err != nil {
			t.Errorf("capability %s invalid: %v", reg.Capability.ID, err)
		}
		if reg.Adapter == nil {
			t.Errorf("capability %s has no adapter", reg.Capability.ID)
		}
		if seen[reg.Capability.ID] {
			t.Errorf("duplicate built-in worker ID %s", reg.Capability.ID)
		}
		seen[reg.Capability.ID] = true
	}
}

func TestTranscribe(t *testing.T) {
	out, err := transcribe(context.Background(), []byte("  turn on the lights  "))
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}

	var result struct {
		Transcript string `json:"transcript"`
		Bytes      int    `json:"bytes"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Transcript != "turn on the lights" {
		t.Errorf("transcript = %q", result.Transcript)
	}
	if result.Bytes != len("  turn on the lights  ") {
		t.Errorf("bytes = %d", result.Bytes)
	}

	if _, err := transcribe(context.Background(), nil); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single entity", "play some music by Miles Davis tonight", []string{"Miles Davis"}},
		{"multiple entities", "book a flight from Berlin to New York", []string{"Berlin", "New York"}},
		{"sentence start counts", "Paris is lovely", []string{"Paris"}},
		{"deduplicates", "call Anna, then call Anna again", []string{"Anna"}},
		{"none", "turn off the lights", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := extractEntities(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}
			var result struct {
				Entities []string `json:"entities"`
			}
			if err := json.Unmarshal(out, &result); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if len(result.Entities) != len(tt.want) {
				t.Fatalf("entities = %v, want %v", result.Entities, tt.want)
			}
			for i := range tt.want {
				if result.Entities[i] != tt.want[i] {
					t.Errorf("entities[%d] = %q, want %q", i, result.Entities[i], tt.want[i])
				}
			}
		})
	}

	if _, err := extractEntities(context.Background(), []byte("   ")); err == nil {
		t.Error("expected error for blank payload")
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		input         string
		wantSentiment string
	}{
		{"this is great, thanks!", "positive"},
		{"everything is broken and wrong", "negative"},
		{"set a timer for ten minutes", "neutral"},
	}

	for _, tt := range tests {
		out, err := analyze(context.Background(), []byte(tt.input))
		if err != nil {
			t.Fatalf("analyze(%q) failed: %v", tt.input, err)
		}
		var result struct {
			Words     int    `json:"words"`
			Sentiment string `json:"sentiment"`
		}
		if err := json.Unmarshal(out, &result); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if result.Sentiment != tt.wantSentiment {
			t.Errorf("analyze(%q) sentiment = %s, want %s", tt.input, result.Sentiment, tt.wantSentiment)
		}
		if result.Words != len(strings.Fields(tt.input)) {
			t.Errorf("analyze(%q) words = %d", tt.input, result.Words)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"transcribe", "extract", "analyze", "synthesize", "echo"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not resolved", name)
		}
	}
	if _, ok := ByName("teleport"); ok {
		t.Error("unknown adapter name should not resolve")
	}
}

func TestEcho(t *testing.T) {
	out, err := echo(context.Background(), []byte("ping"))
	if err != nil {
		t.Fatalf("echo failed: %v", err)
	}
	if string(out) != "ping" {
		t.Errorf("output = %q", out)
	}
	if _, err := echo(context.Background(), nil); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestSynthesize(t *testing.T) {
	out, err := synthesize(context.Background(), []byte("hello there"))
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if string(out) != "VOXAUDIO:hello there" {
		t.Errorf("output = %q", out)
	}

	if _, err := synthesize(context.Background(), []byte("  ")); err == nil {
		t.Error("expected error for blank payload")
	}
}
