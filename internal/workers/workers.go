// Package workers provides the built-in worker implementations the CLI
// registers with the orchestrator: deterministic local workers for
// transcription, entity extraction, analysis and speech synthesis, and
// a Claude-backed worker for response generation.
package workers

import (
	"github.com/voxroute/voxroute/internal/orchestrator"
	"github.com/voxroute/voxroute/pkg/models"
)

// Registration pairs a worker capability with its adapter, ready to be
// handed to the orchestrator.
type Registration struct {
	Capability models.Capability
	Adapter    orchestrator.WorkerAdapter
}

// ByName resolves a manifest adapter name to its executor. Manifest
// entries customize capability metadata over these known executors.
func ByName(name string) (orchestrator.WorkerAdapter, bool) {
	switch name {
	case "transcribe":
		return orchestrator.AdapterFunc(transcribe), true
	case "extract":
		return orchestrator.AdapterFunc(extractEntities), true
	case "analyze":
		return orchestrator.AdapterFunc(analyze), true
	case "synthesize":
		return orchestrator.AdapterFunc(synthesize), true
	case "echo":
		return orchestrator.AdapterFunc(echo), true
	default:
		return nil, false
	}
}

// Builtin returns the local built-in workers. These are deterministic
// stand-ins for provider-backed transcription and synthesis, sufficient
// to run the full selection and execution pipeline.
func Builtin() []Registration {
	return []Registration{
		{
			Capability: models.Capability{
				ID:             "builtin-transcriber",
				Name:           "Transcriber",
				Description:    "Converts audio payloads into text transcripts",
				ExpertiseTags:  []string{"transcription", "audio"},
				BaseConfidence: 0.85,
			},
			Adapter: orchestrator.AdapterFunc(transcribe),
		},
		{
			Capability: models.Capability{
				ID:             "builtin-extractor",
				Name:           "Entity Extractor",
				Description:    "Extracts named entities from text",
				ExpertiseTags:  []string{"nlp", "entity-extraction"},
				BaseConfidence: 0.8,
			},
			Adapter: orchestrator.AdapterFunc(extractEntities),
		},
		{
			Capability: models.Capability{
				ID:             "builtin-analyzer",
				Name:           "Analyzer",
				Description:    "Analyzes text for sentiment and basic statistics",
				ExpertiseTags:  []string{"analysis", "sentiment", "nlp"},
				BaseConfidence: 0.75,
			},
			Adapter: orchestrator.AdapterFunc(analyze),
		},
		{
			Capability: models.Capability{
				ID:             "builtin-synthesizer",
				Name:           "Synthesizer",
				Description:    "Renders text into a synthetic speech payload",
				ExpertiseTags:  []string{"tts", "audio"},
				BaseConfidence: 0.7,
			},
			Adapter: orchestrator.AdapterFunc(synthesize),
		},
	}
}
