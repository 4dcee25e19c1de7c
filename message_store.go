package smslogger

import (
	"context"
	"errors"
)

// ErrAccessDenied signals that the underlying message source cannot be
// queried, typically because the required permission is missing. Stores
// wrap it so that read-oriented MessageLog operations can collapse the
// condition to an empty result.
var ErrAccessDenied = errors.New("access to message store denied")

// MessageStore defines the interface for message storage, used for
// persistent storage and retrieval of message records
type MessageStore interface {
	// Ingest operations
	SaveMessage(ctx context.Context, msg *Message) (string, error)
	SaveMessages(ctx context.Context, msgs []*Message) ([]string, error)

	// Basic operations
	GetMessage(ctx context.Context, id string) (*Message, error)
	UpdateMessage(ctx context.Context, msg *Message) error
	DeleteMessage(ctx context.Context, id string) error
	DeleteThread(ctx context.Context, threadID string) error

	// Query operations. Results are ordered newest first by timestamp and
	// capped by criteria.Limit when set.
	QueryMessages(ctx context.Context, criteria *Criteria) ([]*Message, error)

	// Count operations
	CountUnread(ctx context.Context) (int, error)
}
