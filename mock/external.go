package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.ExternalConverter = (*ExternalConverter)(nil)

// ExternalConverter is a mock implementation of pagemark.ExternalConverter.
type ExternalConverter struct {
	ConvertFn func(ctx context.Context, rawURL string) (string, error)
}

func (e *ExternalConverter) Convert(ctx context.Context, rawURL string) (string, error) {
	return e.ConvertFn(ctx, rawURL)
}
