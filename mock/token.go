package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of pagemark.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (t *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return t.CountTokensFn(ctx, text)
}
