package smslogger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryMessageStore implements the MessageStore interface using memory as
// the storage medium
type MemoryMessageStore struct {
	mu       sync.RWMutex
	messages map[string]*Message
	order    []string // message IDs in insertion order; breaks timestamp ties
}

// NewMemoryMessageStore creates a new memory-based message store
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{
		messages: make(map[string]*Message),
	}
}

// SaveMessage stores a message and returns its ID, generating one if absent
func (s *MemoryMessageStore) SaveMessage(ctx context.Context, msg *Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg == nil {
		return "", errors.New("message cannot be nil")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	if _, exists := s.messages[msg.ID]; !exists {
		s.order = append(s.order, msg.ID)
	}
	s.messages[msg.ID] = copyMessage(msg)

	return msg.ID, nil
}

// SaveMessages stores multiple messages in batch
func (s *MemoryMessageStore) SaveMessages(ctx context.Context, msgs []*Message) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(msgs) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg == nil {
			continue
		}

		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}

		if _, exists := s.messages[msg.ID]; !exists {
			s.order = append(s.order, msg.ID)
		}
		s.messages[msg.ID] = copyMessage(msg)
		ids = append(ids, msg.ID)
	}

	return ids, nil
}

// GetMessage retrieves a message by ID
func (s *MemoryMessageStore) GetMessage(ctx context.Context, id string) (*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, exists := s.messages[id]
	if !exists {
		return nil, fmt.Errorf("message with ID %s not found", id)
	}

	return copyMessage(msg), nil
}

// UpdateMessage updates an existing message
func (s *MemoryMessageStore) UpdateMessage(ctx context.Context, msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg == nil || msg.ID == "" {
		return errors.New("message cannot be nil and must have an ID")
	}

	if _, exists := s.messages[msg.ID]; !exists {
		return fmt.Errorf("message with ID %s not found", msg.ID)
	}

	s.messages[msg.ID] = copyMessage(msg)
	return nil
}

// DeleteMessage deletes a message by ID
func (s *MemoryMessageStore) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messages[id]; !exists {
		return fmt.Errorf("message with ID %s not found", id)
	}

	delete(s.messages, id)
	s.removeFromOrder(id)
	return nil
}

// DeleteThread deletes all messages belonging to a conversation
func (s *MemoryMessageStore) DeleteThread(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if threadID == "" {
		return errors.New("threadID cannot be empty")
	}

	toDelete := []string{}
	for id, msg := range s.messages {
		if msg.ThreadID == threadID {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(s.messages, id)
		s.removeFromOrder(id)
	}

	return nil
}

// QueryMessages returns messages matching the criteria, newest first.
// Messages with equal timestamps keep their insertion order.
func (s *MemoryMessageStore) QueryMessages(ctx context.Context, criteria *Criteria) ([]*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*Message{}
	for _, id := range s.order {
		msg := s.messages[id]
		if !criteria.Matches(msg) {
			continue
		}
		matched = append(matched, copyMessage(msg))
	}

	// Sort by timestamp (newest first); stable so ties keep insertion order
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp > matched[j].Timestamp
	})

	if criteria != nil && criteria.Limit > 0 && len(matched) > criteria.Limit {
		matched = matched[:criteria.Limit]
	}

	return matched, nil
}

// CountUnread counts the number of unread messages in the store
func (s *MemoryMessageStore) CountUnread(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, msg := range s.messages {
		if !msg.Read {
			count++
		}
	}

	return count, nil
}

// removeFromOrder drops an ID from the insertion-order slice. Caller holds
// the write lock.
func (s *MemoryMessageStore) removeFromOrder(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Helper function: Deep copy a message object
func copyMessage(msg *Message) *Message {
	if msg == nil {
		return nil
	}

	msgCopy := &Message{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		Address:   msg.Address,
		Body:      msg.Body,
		Timestamp: msg.Timestamp,
		Type:      msg.Type,
		Read:      msg.Read,
		Seen:      msg.Seen,
	}

	if msg.ServiceCenter != nil {
		sc := *msg.ServiceCenter
		msgCopy.ServiceCenter = &sc
	}
	if msg.Protocol != nil {
		p := *msg.Protocol
		msgCopy.Protocol = &p
	}

	return msgCopy
}
