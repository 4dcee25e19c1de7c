package smslogger

import (
	"context"
	"io"
)

// MessageType identifies the mailbox a message belongs to. The integer
// values match the raw tags reported by common SMS providers.
type MessageType int

const (
	TypeUnknown MessageType = 0
	TypeInbox   MessageType = 1
	TypeSent    MessageType = 2
	TypeDraft   MessageType = 3
	TypeOutbox  MessageType = 4
	TypeFailed  MessageType = 5
	TypeQueued  MessageType = 6
)

// String returns the display name for the message type.
func (t MessageType) String() string {
	switch t {
	case TypeInbox:
		return "inbox"
	case TypeSent:
		return "sent"
	case TypeDraft:
		return "draft"
	case TypeOutbox:
		return "outbox"
	case TypeFailed:
		return "failed"
	case TypeQueued:
		return "queued"
	default:
		return "unknown"
	}
}

// MessageTypeFromValue maps a raw integer tag to a MessageType.
// Unrecognized values map to TypeUnknown rather than failing.
func MessageTypeFromValue(value int) MessageType {
	switch MessageType(value) {
	case TypeInbox, TypeSent, TypeDraft, TypeOutbox, TypeFailed, TypeQueued:
		return MessageType(value)
	default:
		return TypeUnknown
	}
}

// Message represents one SMS record. Messages are read-only snapshots of the
// underlying store; they are never mutated by queries or aggregations.
type Message struct {
	ID            string      // Unique message ID
	ThreadID      string      // Conversation identifier; not guaranteed numeric
	Address       string      // Sender/recipient identifier; may be empty
	Body          string      // Message text; arbitrary Unicode
	Timestamp     int64       // Milliseconds since epoch
	Type          MessageType // Mailbox tag
	Read          bool        // Read flag
	Seen          bool        // Seen flag; true when the source does not report it
	ServiceCenter *string     // Service center address; nil when unsupported
	Protocol      *int        // Protocol identifier; nil when unsupported
}

// NewMessage creates a message with the fields every source reports. Seen
// defaults to true because most sources do not carry a separate seen flag;
// callers with a source that does can set it afterwards.
func NewMessage(id, threadID, address, body string, timestamp int64, msgType MessageType) *Message {
	return &Message{
		ID:        id,
		ThreadID:  threadID,
		Address:   address,
		Body:      body,
		Timestamp: timestamp,
		Type:      msgType,
		Seen:      true,
	}
}

// ThreadSummary is the per-conversation aggregate produced by
// AggregateThreads. It is recomputed on every call and never persisted.
type ThreadSummary struct {
	ThreadID      string      // Conversation identifier
	Address       string      // Address of the most recent message
	MessageCount  int         // Number of messages in the thread
	UnreadCount   int         // Number of unread messages in the thread
	LastTimestamp int64       // Timestamp of the most recent message
	LastBody      string      // Body of the most recent message
	LastType      MessageType // Type of the most recent message
}

// TopSender is one entry of the Statistics sender ranking.
type TopSender struct {
	Address string
	Count   int
}

// Statistics is the corpus-wide aggregate produced by ComputeStatistics.
// OldestTimestamp and NewestTimestamp are 0 when the input is empty.
type Statistics struct {
	TotalMessages    int
	Inbox            int
	Sent             int
	Draft            int
	Failed           int
	UnreadMessages   int
	OldestTimestamp  int64
	NewestTimestamp  int64
	TopSenders       []TopSender // Sorted by count descending, at most 10 entries
	WindowDays       int         // Length of the trailing activity window
	MessagesInWindow int         // Messages with a timestamp inside the window
	AveragePerDay    float64     // MessagesInWindow / WindowDays
}

// MessageLog defines the interface for querying and analyzing a message log
type MessageLog interface {
	// Ingest operations
	LogMessage(ctx context.Context, msg *Message) (string, error)       // Record a single message, returns its ID
	LogMessages(ctx context.Context, msgs []*Message) ([]string, error) // Record a batch of messages

	// Query operations
	GetMessage(ctx context.Context, id string) (*Message, error)             // Get a message by ID
	GetMessages(ctx context.Context, criteria *Criteria) ([]*Message, error) // Query messages by criteria, newest first
	GetThread(ctx context.Context, threadID string) ([]*Message, error)      // Get all messages of one conversation

	// Aggregation operations
	GetThreadSummaries(ctx context.Context) ([]*ThreadSummary, error) // Per-conversation summaries, most recent first
	GetStatistics(ctx context.Context) (*Statistics, error)           // Corpus-wide statistics over all messages

	// Read-state operations
	MarkAsRead(ctx context.Context, id string) error             // Mark one message as read
	MarkThreadAsRead(ctx context.Context, threadID string) error // Mark every message of a conversation as read
	CountUnread(ctx context.Context) (int, error)                // Count unread messages across the corpus

	// Management operations
	DeleteMessage(ctx context.Context, id string) error      // Delete a message
	DeleteThread(ctx context.Context, threadID string) error // Delete all messages of a conversation

	// Export operations
	ExportCSV(ctx context.Context, w io.Writer, criteria *Criteria) error      // Write matching messages as CSV
	ExportJSON(ctx context.Context, w io.Writer, criteria *Criteria) error     // Write matching messages as a JSON array
	ExportCSVFile(ctx context.Context, path string, criteria *Criteria) error  // Write a CSV export file
	ExportJSONFile(ctx context.Context, path string, criteria *Criteria) error // Write a JSON export file
	WriteReport(ctx context.Context, w io.Writer, criteria *Criteria) error    // Write a human-readable report
}
