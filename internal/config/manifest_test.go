package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workers.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
workers:
  - id: stt-1
    name: Cloud Transcriber
    description: Streaming speech-to-text
    expertise_tags: [transcription, audio, streaming]
    base_confidence: 0.92
    adapter: transcribe
  - id: ner-1
    name: Entity Tagger
    description: Named entity recognition
    expertise_tags: [nlp, entity-extraction]
    base_confidence: 0.85
    adapter: extract
`)

	entries, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 workers, got %d", len(entries))
	}

	if entries[0].Capability.ID != "stt-1" {
		t.Errorf("expected id 'stt-1', got %q", entries[0].Capability.ID)
	}
	if entries[0].Capability.BaseConfidence != 0.92 {
		t.Errorf("expected base confidence 0.92, got %v", entries[0].Capability.BaseConfidence)
	}
	if entries[0].Adapter != "transcribe" {
		t.Errorf("expected adapter 'transcribe', got %q", entries[0].Adapter)
	}
	if len(entries[0].Capability.ExpertiseTags) != 3 {
		t.Errorf("expected 3 tags, got %v", entries[0].Capability.ExpertiseTags)
	}
	if entries[1].Capability.Name != "Entity Tagger" {
		t.Errorf("expected name 'Entity Tagger', got %q", entries[1].Capability.Name)
	}
}

func TestLoadManifestInvalidWorker(t *testing.T) {
	// base_confidence outside [0,1] fails validation.
	path := writeManifest(t, `
workers:
  - id: bad-1
    name: Bad Worker
    expertise_tags: [x]
    base_confidence: 1.5
    adapter: echo
`)

	if _, err := LoadManifest(path); err == nil {
		t.Error("expected validation error for invalid base_confidence")
	}
}

func TestLoadManifestMissingAdapter(t *testing.T) {
	path := writeManifest(t, `
workers:
  - id: w1
    name: A
    expertise_tags: [x]
    base_confidence: 0.5
`)

	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for missing adapter")
	}
}

func TestLoadManifestDuplicateID(t *testing.T) {
	path := writeManifest(t, `
workers:
  - id: w1
    name: A
    expertise_tags: [x]
    base_confidence: 0.5
    adapter: echo
  - id: w1
    name: B
    expertise_tags: [y]
    base_confidence: 0.5
    adapter: echo
`)

	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for duplicate worker id")
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}

func TestLoadManifestMalformedYAML(t *testing.T) {
	path := writeManifest(t, "workers: [unclosed")
	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestWatchManifestReload(t *testing.T) {
	path := writeManifest(t, `
workers:
  - id: w1
    name: First
    expertise_tags: [x]
    base_confidence: 0.5
    adapter: echo
`)

	reloads := make(chan int, 4)
	mw, err := WatchManifest(path, func(entries []ManifestEntry) {
		reloads <- len(entries)
	})
	if err != nil {
		t.Fatalf("WatchManifest failed: %v", err)
	}
	defer mw.Close()

	updated := `
workers:
  - id: w1
    name: First
    expertise_tags: [x]
    base_confidence: 0.5
    adapter: echo
  - id: w2
    name: Second
    expertise_tags: [y]
    base_confidence: 0.6
    adapter: echo
`
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("failed to update manifest: %v", err)
	}

	select {
	case n := <-reloads:
		if n != 2 {
			t.Errorf("reload delivered %d workers, want 2", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("manifest reload not observed")
	}
}
