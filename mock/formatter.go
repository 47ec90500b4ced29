package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.Formatter = (*Formatter)(nil)

// Formatter is a mock implementation of pagemark.Formatter.
type Formatter struct {
	FormatFn func(ctx context.Context, req pagemark.FormatRequest) (string, error)
}

func (f *Formatter) Format(ctx context.Context, req pagemark.FormatRequest) (string, error) {
	return f.FormatFn(ctx, req)
}
