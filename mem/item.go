// Package mem provides in-memory implementations of pagemark services.
// Everything here is transient and lost on process exit.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pagemark/pagemark"
)

var _ pagemark.ItemService = (*ItemService)(nil)

// ItemService stores saved conversions in memory, keyed by session.
type ItemService struct {
	mu    sync.RWMutex
	items map[string][]*pagemark.SavedItem

	now func() time.Time
}

// NewItemService returns an empty in-memory item store.
func NewItemService() *ItemService {
	return &ItemService{
		items: make(map[string][]*pagemark.SavedItem),
		now:   time.Now,
	}
}

// CreateItem validates the item, assigns its ID and creation time, and
// appends it to the session's list.
func (s *ItemService) CreateItem(_ context.Context, item *pagemark.SavedItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	item.CreatedAt = s.now()
	s.items[item.SessionID] = append(s.items[item.SessionID], item)
	return nil
}

// FindItemsBySession returns the session's items in creation order. An
// unknown session yields an empty slice, not an error.
func (s *ItemService) FindItemsBySession(_ context.Context, sessionID string) ([]*pagemark.SavedItem, error) {
	if sessionID == "" {
		return nil, pagemark.Errorf(pagemark.EINVALID, "session ID required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*pagemark.SavedItem, len(s.items[sessionID]))
	copy(items, s.items[sessionID])
	return items, nil
}

// DeleteItem removes one item from a session. Items belonging to other
// sessions are invisible here, so deleting across sessions reports
// ENOTFOUND rather than leaking existence.
func (s *ItemService) DeleteItem(_ context.Context, sessionID, id string) error {
	if sessionID == "" {
		return pagemark.Errorf(pagemark.EINVALID, "session ID required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items[sessionID]
	for i, item := range items {
		if item.ID == id {
			s.items[sessionID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return pagemark.Errorf(pagemark.ENOTFOUND, "item %q not found", id)
}
