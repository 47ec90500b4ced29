package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.ItemService = (*ItemService)(nil)

// ItemService is a mock implementation of pagemark.ItemService.
type ItemService struct {
	CreateItemFn         func(ctx context.Context, item *pagemark.SavedItem) error
	FindItemsBySessionFn func(ctx context.Context, sessionID string) ([]*pagemark.SavedItem, error)
	DeleteItemFn         func(ctx context.Context, sessionID, id string) error
}

func (s *ItemService) CreateItem(ctx context.Context, item *pagemark.SavedItem) error {
	return s.CreateItemFn(ctx, item)
}

func (s *ItemService) FindItemsBySession(ctx context.Context, sessionID string) ([]*pagemark.SavedItem, error) {
	return s.FindItemsBySessionFn(ctx, sessionID)
}

func (s *ItemService) DeleteItem(ctx context.Context, sessionID, id string) error {
	return s.DeleteItemFn(ctx, sessionID, id)
}
