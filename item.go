package pagemark

import (
	"context"
	"time"
)

// SavedItem is a conversion kept in a caller's session. Items are
// transient: they live in memory for the life of the process and are lost
// on restart.
type SavedItem struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	SourceURL string         `json:"sourceUrl"`
	Title     string         `json:"title,omitempty"`
	Mode      ProcessingMode `json:"mode"`
	Markdown  string         `json:"markdown"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Validate returns an error if the item contains invalid fields.
func (i *SavedItem) Validate() error {
	if i.SessionID == "" {
		return Errorf(EINVALID, "item session ID required")
	}
	if i.SourceURL == "" {
		return Errorf(EINVALID, "item source URL required")
	}
	if !i.Mode.Valid() {
		return Errorf(EINVALID, "invalid processing mode %q", i.Mode)
	}
	return nil
}

// ItemService manages saved conversions within a session.
type ItemService interface {
	// CreateItem saves a conversion. Assigns an ID and creation time.
	CreateItem(ctx context.Context, item *SavedItem) error

	// FindItemsBySession returns a session's items in creation order.
	FindItemsBySession(ctx context.Context, sessionID string) ([]*SavedItem, error)

	// DeleteItem removes an item from a session.
	// Returns ENOTFOUND if the item does not exist in the session.
	DeleteItem(ctx context.Context, sessionID, id string) error
}
