package smslogger

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
)

// DefaultMessageLog implements the MessageLog interface. It holds no state
// of its own beyond the injected collaborators, so instances are safe for
// concurrent use and cheap to create.
type DefaultMessageLog struct {
	store  MessageStore // Storage backend
	logger *zap.Logger
}

// Option configures a DefaultMessageLog.
type Option func(*DefaultMessageLog)

// WithLogger sets the logger used for denied-access warnings and export
// failures. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *DefaultMessageLog) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewDefaultMessageLog creates a message log backed by the provided store
func NewDefaultMessageLog(store MessageStore, opts ...Option) *DefaultMessageLog {
	l := &DefaultMessageLog{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMessage records a single message
func (l *DefaultMessageLog) LogMessage(ctx context.Context, msg *Message) (string, error) {
	if msg == nil {
		return "", errors.New("message cannot be nil")
	}

	l.prepareMessage(msg)
	return l.store.SaveMessage(ctx, msg)
}

// LogMessages records a batch of messages
func (l *DefaultMessageLog) LogMessages(ctx context.Context, msgs []*Message) ([]string, error) {
	if len(msgs) == 0 {
		return []string{}, nil
	}

	prepared := make([]*Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		l.prepareMessage(msg)
		prepared = append(prepared, msg)
	}

	return l.store.SaveMessages(ctx, prepared)
}

// GetMessage gets a message by ID
func (l *DefaultMessageLog) GetMessage(ctx context.Context, id string) (*Message, error) {
	if id == "" {
		return nil, errors.New("message ID cannot be empty")
	}

	return l.store.GetMessage(ctx, id)
}

// GetMessages queries messages by criteria, newest first. A denied store
// collapses to an empty result; callers that need to distinguish denial
// from an empty corpus query the store directly.
func (l *DefaultMessageLog) GetMessages(ctx context.Context, criteria *Criteria) ([]*Message, error) {
	msgs, err := l.store.QueryMessages(ctx, criteria)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			l.logger.Warn("message store denied access, returning empty result", zap.Error(err))
			return []*Message{}, nil
		}
		return nil, err
	}

	return msgs, nil
}

// GetThread gets all messages of one conversation, newest first
func (l *DefaultMessageLog) GetThread(ctx context.Context, threadID string) ([]*Message, error) {
	if threadID == "" {
		return nil, errors.New("thread ID cannot be empty")
	}

	return l.GetMessages(ctx, &Criteria{ThreadID: threadID})
}

// GetThreadSummaries aggregates the whole corpus into per-conversation
// summaries, most recently active first
func (l *DefaultMessageLog) GetThreadSummaries(ctx context.Context) ([]*ThreadSummary, error) {
	msgs, err := l.GetMessages(ctx, nil)
	if err != nil {
		return nil, err
	}

	return AggregateThreads(msgs), nil
}

// GetStatistics computes statistics over the entire corpus. Statistics
// always reflect all accessible messages at call time, never a filtered
// subset.
func (l *DefaultMessageLog) GetStatistics(ctx context.Context) (*Statistics, error) {
	msgs, err := l.GetMessages(ctx, nil)
	if err != nil {
		return nil, err
	}

	return ComputeStatistics(msgs), nil
}

// MarkAsRead marks a message as read
func (l *DefaultMessageLog) MarkAsRead(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("message ID cannot be empty")
	}

	msg, err := l.store.GetMessage(ctx, id)
	if err != nil {
		return err
	}

	if msg.Read {
		return nil
	}

	// A read message has necessarily been seen
	msg.Read = true
	msg.Seen = true
	return l.store.UpdateMessage(ctx, msg)
}

// MarkThreadAsRead marks every message of a conversation as read
func (l *DefaultMessageLog) MarkThreadAsRead(ctx context.Context, threadID string) error {
	if threadID == "" {
		return errors.New("thread ID cannot be empty")
	}

	msgs, err := l.store.QueryMessages(ctx, &Criteria{ThreadID: threadID, UnreadOnly: true})
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		msg.Read = true
		msg.Seen = true
		if err := l.store.UpdateMessage(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

// CountUnread counts unread messages across the corpus
func (l *DefaultMessageLog) CountUnread(ctx context.Context) (int, error) {
	count, err := l.store.CountUnread(ctx)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			l.logger.Warn("message store denied access, returning zero count", zap.Error(err))
			return 0, nil
		}
		return 0, err
	}

	return count, nil
}

// DeleteMessage deletes a message
func (l *DefaultMessageLog) DeleteMessage(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("message ID cannot be empty")
	}

	return l.store.DeleteMessage(ctx, id)
}

// DeleteThread deletes all messages of a conversation
func (l *DefaultMessageLog) DeleteThread(ctx context.Context, threadID string) error {
	if threadID == "" {
		return errors.New("thread ID cannot be empty")
	}

	return l.store.DeleteThread(ctx, threadID)
}

// ExportCSV writes the messages matching the criteria as CSV, header
// included. The export is never retried; a partial write stays written.
func (l *DefaultMessageLog) ExportCSV(ctx context.Context, w io.Writer, criteria *Criteria) error {
	msgs, err := l.GetMessages(ctx, criteria)
	if err != nil {
		return err
	}

	if err := WriteCSV(w, msgs, true); err != nil {
		l.logger.Error("csv export failed", zap.Error(err))
		return err
	}
	return nil
}

// ExportJSON writes the messages matching the criteria as a JSON array
func (l *DefaultMessageLog) ExportJSON(ctx context.Context, w io.Writer, criteria *Criteria) error {
	msgs, err := l.GetMessages(ctx, criteria)
	if err != nil {
		return err
	}

	if err := WriteJSON(w, msgs); err != nil {
		l.logger.Error("json export failed", zap.Error(err))
		return err
	}
	return nil
}

// ExportCSVFile writes a CSV export file for the messages matching the
// criteria. A failed export leaves any partial file in place.
func (l *DefaultMessageLog) ExportCSVFile(ctx context.Context, path string, criteria *Criteria) error {
	msgs, err := l.GetMessages(ctx, criteria)
	if err != nil {
		return err
	}

	if err := WriteCSVFile(path, msgs, true); err != nil {
		l.logger.Error("csv file export failed", zap.String("path", path), zap.Error(err))
		return err
	}
	l.logger.Info("csv export written", zap.String("path", path), zap.Int("messages", len(msgs)))
	return nil
}

// ExportJSONFile writes a JSON export file for the messages matching the
// criteria. A failed export leaves any partial file in place.
func (l *DefaultMessageLog) ExportJSONFile(ctx context.Context, path string, criteria *Criteria) error {
	msgs, err := l.GetMessages(ctx, criteria)
	if err != nil {
		return err
	}

	if err := WriteJSONFile(path, msgs); err != nil {
		l.logger.Error("json file export failed", zap.String("path", path), zap.Error(err))
		return err
	}
	l.logger.Info("json export written", zap.String("path", path), zap.Int("messages", len(msgs)))
	return nil
}

// WriteReport writes a human-readable report of the messages matching the
// criteria
func (l *DefaultMessageLog) WriteReport(ctx context.Context, w io.Writer, criteria *Criteria) error {
	msgs, err := l.GetMessages(ctx, criteria)
	if err != nil {
		return err
	}

	return WriteReport(w, msgs)
}

// prepareMessage sets default values for a message before storing it
func (l *DefaultMessageLog) prepareMessage(msg *Message) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	// Normalize out-of-range type tags instead of rejecting them
	msg.Type = MessageTypeFromValue(int(msg.Type))
}
