package port

import (
	"context"

	"supportbot/internal/domain"
)

type ResultCache interface {
	Get(ctx context.Context, key string) (domain.Result, bool)
	Put(ctx context.Context, key string, result domain.Result)
	Invalidate(ctx context.Context)
}
