package smslogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMessageStore implements the MessageStore interface using GORM as the
// storage medium
type GormMessageStore struct {
	db *gorm.DB
}

// MessageEntity is the database model for Message records
type MessageEntity struct {
	ID            string `gorm:"primaryKey"`
	ThreadID      string `gorm:"index"`
	Address       string `gorm:"index"`
	Body          string `gorm:"type:text"`
	Timestamp     int64  `gorm:"index"`
	Type          int    `gorm:"index"`
	IsRead        bool   `gorm:"index"`
	IsSeen        bool
	ServiceCenter *string
	Protocol      *int
	CreatedAt     time.Time // GORM's default timestamp
	UpdatedAt     time.Time // GORM's default timestamp
}

// TableName specifies the table name for the MessageEntity
func (MessageEntity) TableName() string {
	return "messages"
}

// NewGormMessageStore creates a new GORM-based message store
func NewGormMessageStore(db *gorm.DB) (*GormMessageStore, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}

	// Auto migrate the schema
	err := db.AutoMigrate(&MessageEntity{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return &GormMessageStore{
		db: db,
	}, nil
}

// SaveMessage stores a message and returns its ID, generating one if absent
func (s *GormMessageStore) SaveMessage(ctx context.Context, msg *Message) (string, error) {
	if msg == nil {
		return "", errors.New("message cannot be nil")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	entity := messageToEntity(msg)
	result := s.db.WithContext(ctx).Create(entity)
	if result.Error != nil {
		return "", fmt.Errorf("failed to save message: %w", result.Error)
	}

	return msg.ID, nil
}

// SaveMessages stores multiple messages in a single transaction
func (s *GormMessageStore) SaveMessages(ctx context.Context, msgs []*Message) ([]string, error) {
	if len(msgs) == 0 {
		return []string{}, nil
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	ids := make([]string, 0, len(msgs))
	entities := make([]MessageEntity, 0, len(msgs))

	for _, msg := range msgs {
		if msg == nil {
			continue
		}

		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}

		entities = append(entities, *messageToEntity(msg))
		ids = append(ids, msg.ID)
	}

	if len(entities) > 0 {
		result := tx.Create(&entities)
		if result.Error != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to save batch messages: %w", result.Error)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ids, nil
}

// GetMessage retrieves a message by ID
func (s *GormMessageStore) GetMessage(ctx context.Context, id string) (*Message, error) {
	if id == "" {
		return nil, errors.New("message ID cannot be empty")
	}

	var entity MessageEntity
	result := s.db.WithContext(ctx).First(&entity, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("message with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get message: %w", result.Error)
	}

	return entityToMessage(&entity), nil
}

// UpdateMessage updates an existing message
func (s *GormMessageStore) UpdateMessage(ctx context.Context, msg *Message) error {
	if msg == nil || msg.ID == "" {
		return errors.New("message cannot be nil and must have an ID")
	}

	var count int64
	result := s.db.WithContext(ctx).Model(&MessageEntity{}).Where("id = ?", msg.ID).Count(&count)
	if result.Error != nil {
		return fmt.Errorf("failed to check message existence: %w", result.Error)
	}
	if count == 0 {
		return fmt.Errorf("message with ID %s not found", msg.ID)
	}

	result = s.db.WithContext(ctx).Save(messageToEntity(msg))
	if result.Error != nil {
		return fmt.Errorf("failed to update message: %w", result.Error)
	}

	return nil
}

// DeleteMessage deletes a message by ID
func (s *GormMessageStore) DeleteMessage(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("message ID cannot be empty")
	}

	result := s.db.WithContext(ctx).Delete(&MessageEntity{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("message with ID %s not found", id)
	}

	return nil
}

// DeleteThread deletes all messages belonging to a conversation
func (s *GormMessageStore) DeleteThread(ctx context.Context, threadID string) error {
	if threadID == "" {
		return errors.New("threadID cannot be empty")
	}

	result := s.db.WithContext(ctx).Delete(&MessageEntity{}, "thread_id = ?", threadID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete thread: %w", result.Error)
	}

	return nil
}

// QueryMessages returns messages matching the criteria, newest first.
// Exact conditions are pushed down to the database; substring conditions are
// evaluated in process because LIKE is case-insensitive on SQLite and the
// contract requires case-sensitive containment. Limit is only pushed down
// when no in-process condition remains.
func (s *GormMessageStore) QueryMessages(ctx context.Context, criteria *Criteria) ([]*Message, error) {
	tx := s.db.WithContext(ctx).Model(&MessageEntity{})

	if criteria != nil {
		if criteria.Type != nil {
			tx = tx.Where("type = ?", int(*criteria.Type))
		}
		if criteria.ThreadID != "" {
			tx = tx.Where("thread_id = ?", criteria.ThreadID)
		}
		if criteria.DateFrom != nil {
			tx = tx.Where("timestamp >= ?", *criteria.DateFrom)
		}
		if criteria.DateTo != nil {
			tx = tx.Where("timestamp <= ?", *criteria.DateTo)
		}
		if criteria.UnreadOnly {
			tx = tx.Where("is_read = ?", false)
		}
		if criteria.Limit > 0 && criteria.AddressContains == "" && criteria.BodyContains == "" {
			tx = tx.Limit(criteria.Limit)
		}
	}

	var entities []MessageEntity
	result := tx.Order("timestamp DESC").Find(&entities)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query messages: %w", result.Error)
	}

	messages := make([]*Message, 0, len(entities))
	for i := range entities {
		msg := entityToMessage(&entities[i])
		if !criteria.Matches(msg) {
			continue
		}
		messages = append(messages, msg)
	}

	if criteria != nil && criteria.Limit > 0 && len(messages) > criteria.Limit {
		messages = messages[:criteria.Limit]
	}

	return messages, nil
}

// CountUnread counts the number of unread messages in the store
func (s *GormMessageStore) CountUnread(ctx context.Context) (int, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&MessageEntity{}).Where("is_read = ?", false).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}

	return int(count), nil
}

// Helper function: Convert Message to MessageEntity
func messageToEntity(msg *Message) *MessageEntity {
	return &MessageEntity{
		ID:            msg.ID,
		ThreadID:      msg.ThreadID,
		Address:       msg.Address,
		Body:          msg.Body,
		Timestamp:     msg.Timestamp,
		Type:          int(msg.Type),
		IsRead:        msg.Read,
		IsSeen:        msg.Seen,
		ServiceCenter: msg.ServiceCenter,
		Protocol:      msg.Protocol,
	}
}

// Helper function: Convert MessageEntity to Message
func entityToMessage(entity *MessageEntity) *Message {
	return &Message{
		ID:            entity.ID,
		ThreadID:      entity.ThreadID,
		Address:       entity.Address,
		Body:          entity.Body,
		Timestamp:     entity.Timestamp,
		Type:          MessageTypeFromValue(entity.Type),
		Read:          entity.IsRead,
		Seen:          entity.IsSeen,
		ServiceCenter: entity.ServiceCenter,
		Protocol:      entity.Protocol,
	}
}
