package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// transcribe is a local stand-in for a speech-to-text provider. It
// treats the payload as UTF-8 text when possible and reports payload
// statistics otherwise, so the pipeline is exercisable without audio
// credentials.
func transcribe(ctx context.Context, input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("transcribe: empty payload")
	}

	transcript := strings.TrimSpace(string(input))
	out := map[string]any{
		"transcript": transcript,
		"bytes":      len(input),
	}
	return json.Marshal(out)
}

// extractEntities pulls capitalized token runs out of the text as a
// cheap named-entity approximation.
func extractEntities(ctx context.Context, input []byte) ([]byte, error) {
	text := string(input)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract: empty payload")
	}

	seen := make(map[string]bool)
	var entities []string

	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		entity := strings.Join(current, " ")
		if !seen[entity] {
			seen[entity] = true
			entities = append(entities, entity)
		}
		current = current[:0]
	}

	for _, word := range strings.Fields(text) {
		trimmed := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if trimmed == "" {
			flush()
			continue
		}
		r := []rune(trimmed)
		if unicode.IsUpper(r[0]) {
			current = append(current, trimmed)
		} else {
			flush()
		}
	}
	flush()

	if entities == nil {
		entities = []string{}
	}
	return json.Marshal(map[string]any{"entities": entities})
}

// sentimentLexicon is a minimal polarity word list for the local
// analyzer.
var sentimentLexicon = map[string]int{
	"good": 1, "great": 1, "excellent": 1, "happy": 1, "love": 1,
	"thanks": 1, "perfect": 1, "wonderful": 1,
	"bad": -1, "terrible": -1, "awful": -1, "sad": -1, "hate": -1,
	"broken": -1, "angry": -1, "wrong": -1,
}

// analyze reports word count and lexicon-based sentiment.
func analyze(ctx context.Context, input []byte) ([]byte, error) {
	text := string(input)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("analyze: empty payload")
	}

	words := strings.Fields(text)
	score := 0
	for _, w := range words {
		score += sentimentLexicon[strings.ToLower(strings.Trim(w, ".,!?;:\"'"))]
	}

	sentiment := "neutral"
	switch {
	case score > 0:
		sentiment = "positive"
	case score < 0:
		sentiment = "negative"
	}

	return json.Marshal(map[string]any{
		"words":     len(words),
		"sentiment": sentiment,
		"score":     score,
	})
}

// echo returns the payload unchanged. Useful for manifest entries that
// exist only to exercise routing.
func echo(ctx context.Context, input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("echo: empty payload")
	}
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// synthesize is a local stand-in for a text-to-speech provider. It
// emits a tagged payload rather than real audio.
func synthesize(ctx context.Context, input []byte) ([]byte, error) {
	text := strings.TrimSpace(string(input))
	if text == "" {
		return nil, fmt.Errorf("synthesize: empty payload")
	}
	return []byte("VOXAUDIO:" + text), nil
}
