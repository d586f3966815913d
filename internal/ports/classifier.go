package ports

import "context"

// ClassifierService sends a text prompt to the language model and
// returns the raw completion. The completion is free text that is
// expected to embed one JSON object; extraction happens downstream.
type ClassifierService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
