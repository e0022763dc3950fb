package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/voxroute/voxroute/internal/oracle"
	"github.com/voxroute/voxroute/internal/registry"
	"github.com/voxroute/voxroute/pkg/models"
)

// analyzeConfidence is the fixed confidence of the informational
// analyze step.
const analyzeConfidence = 0.9

// selection is the outcome of the chain-of-thought selection phase.
type selection struct {
	// workerID is the chosen worker.
	workerID string
	// candidate is the chosen worker's scored registry entry.
	candidate registry.Candidate
	// trace is the ordered reasoning trace (analyze, match, select).
	trace []models.ReasoningStep
	// finalReasoning is the justification text for the choice.
	finalReasoning string
	// confidence is the mean confidence across trace steps.
	confidence float64
}

// selector runs the multi-step worker selection: analyze the task,
// match candidates by tag overlap, break ties through the reasoning
// oracle, and produce a justification. The oracle is optional; without
// one, ties fall to the highest-scored candidate and justifications are
// templated.
type selector struct {
	registry *registry.CapabilityRegistry
	oracle   oracle.Oracle
}

// Select chooses a worker for the request. It returns ErrNoCandidate
// when no registered worker overlaps the required tags; the partial
// trace recorded up to that point is returned alongside the error so
// failed tasks still carry their reasoning.
func (s *selector) Select(ctx context.Context, req models.TaskRequest) (*selection, []models.ReasoningStep, error) {
	var trace []models.ReasoningStep

	// Step 1: analyze. Informational only.
	trace = append(trace, models.ReasoningStep{
		Step:       "analyze",
		Detail:     fmt.Sprintf("task kind=%s priority=%s tags=%s", req.Kind, req.Priority, strings.Join(req.RequiredTags, ",")),
		Confidence: analyzeConfidence,
		Timestamp:  time.Now(),
	})

	// Step 2: match candidates by tag overlap.
	candidates := s.registry.FindByTags(req.RequiredTags)
	if len(candidates) == 0 {
		trace = append(trace, models.ReasoningStep{
			Step:       "match",
			Detail:     "no workers overlap the required tags",
			Confidence: 0,
			Timestamp:  time.Now(),
		})
		return nil, trace, ErrNoCandidate
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Capability.Name
	}
	trace = append(trace, models.ReasoningStep{
		Step:       "match",
		Detail:     fmt.Sprintf("%d candidate(s): %s", len(candidates), strings.Join(names, ", ")),
		Confidence: candidates[0].Score,
		Timestamp:  time.Now(),
	})

	// Step 3: select. A single candidate is chosen directly; multiple
	// candidates go through the oracle tie-break.
	chosen := candidates[0]
	selectDetail := fmt.Sprintf("single candidate %s selected", chosen.Capability.Name)
	selectConfidence := chosen.Score

	if len(candidates) > 1 {
		chosen, selectDetail = s.tieBreak(ctx, req, candidates)
		selectConfidence = chosen.Score
	}
	trace = append(trace, models.ReasoningStep{
		Step:       "select",
		Detail:     selectDetail,
		Confidence: selectConfidence,
		Timestamp:  time.Now(),
	})

	// Step 4: finalize. Oracle failures here never fail the task.
	reasoning := s.justify(ctx, req, chosen)

	sel := &selection{
		workerID:       chosen.ID,
		candidate:      chosen,
		trace:          trace,
		finalReasoning: reasoning,
		confidence:     meanConfidence(trace),
	}
	return sel, trace, nil
}

// tieBreak consults the oracle to choose among multiple candidates. The
// oracle's free-text answer is parsed by case-insensitive substring
// match against candidate names; anything unparseable falls back to the
// highest-scored candidate.
func (s *selector) tieBreak(ctx context.Context, req models.TaskRequest, candidates []registry.Candidate) (registry.Candidate, string) {
	top := candidates[0]

	if s.oracle == nil {
		return top, fmt.Sprintf("no oracle configured; highest score %s selected from %d candidates", top.Capability.Name, len(candidates))
	}

	resp, err := s.oracle.Ask(ctx, buildTieBreakPrompt(req, candidates))
	if err != nil {
		log.Printf("[selector] oracle tie-break failed, falling back to top score: %v", err)
		return top, fmt.Sprintf("oracle unavailable; highest score %s selected from %d candidates", top.Capability.Name, len(candidates))
	}

	if picked, ok := matchCandidate(resp, candidates); ok {
		return picked, fmt.Sprintf("oracle selected %s from %d candidates", picked.Capability.Name, len(candidates))
	}

	log.Printf("[selector] oracle response named no candidate, falling back to top score")
	return top, fmt.Sprintf("oracle response inconclusive; highest score %s selected from %d candidates", top.Capability.Name, len(candidates))
}

// justify produces the final natural-language justification, templated
// when the oracle is unavailable or errors.
func (s *selector) justify(ctx context.Context, req models.TaskRequest, chosen registry.Candidate) string {
	if s.oracle != nil {
		prompt := fmt.Sprintf(
			"In one sentence, justify assigning a %s task to the worker %q (%s).",
			req.Kind, chosen.Capability.Name, chosen.Capability.Description)
		if resp, err := s.oracle.Ask(ctx, prompt); err == nil {
			return resp
		}
		log.Printf("[selector] oracle justification failed, using template")
	}

	return fmt.Sprintf("Selected %s (score %.2f): expertise tags [%s] cover required tags [%s].",
		chosen.Capability.Name, chosen.Score,
		strings.Join(chosen.Capability.ExpertiseTags, ", "),
		strings.Join(chosen.MatchedTags, ", "))
}

// buildTieBreakPrompt enumerates candidates with names, descriptions and
// scores for the oracle.
func buildTieBreakPrompt(req models.TaskRequest, candidates []registry.Candidate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Choose the best worker for a %s task requiring tags [%s].\n",
		req.Kind, strings.Join(req.RequiredTags, ", "))
	sb.WriteString("Respond with the name of exactly one worker.\n\nCandidates:\n")
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- %s (score=%.2f): %s\n", c.Capability.Name, c.Score, c.Capability.Description)
	}
	return sb.String()
}

// matchCandidate finds the first candidate (in score order) whose name
// appears in the oracle's response, case-insensitively.
func matchCandidate(response string, candidates []registry.Candidate) (registry.Candidate, bool) {
	lower := strings.ToLower(response)
	for _, c := range candidates {
		if strings.Contains(lower, strings.ToLower(c.Capability.Name)) {
			return c, true
		}
	}
	return registry.Candidate{}, false
}

// meanConfidence is the arithmetic mean of the trace-step confidences.
func meanConfidence(trace []models.ReasoningStep) float64 {
	if len(trace) == 0 {
		return 0
	}
	var sum float64
	for _, step := range trace {
		sum += step.Confidence
	}
	return sum / float64(len(trace))
}
