package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.ChatAgent = (*ChatAgent)(nil)

// ChatAgent is a mock implementation of pagemark.ChatAgent.
type ChatAgent struct {
	ReplyFn func(ctx context.Context, transcript []pagemark.Message, contextDoc string) (string, error)
}

func (a *ChatAgent) Reply(ctx context.Context, transcript []pagemark.Message, contextDoc string) (string, error) {
	return a.ReplyFn(ctx, transcript, contextDoc)
}
