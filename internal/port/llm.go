package port

import (
	"context"

	"supportbot/internal/domain"
)

// Responder phrases retrieved data as a natural-language answer.
type Responder interface {
	// Respond writes an answer to query using only the data in result.
	Respond(ctx context.Context, query string, result domain.Result, history []domain.Turn) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
