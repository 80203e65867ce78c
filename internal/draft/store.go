package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

// Store persists in-progress answer state to a local durable cache so a
// taking-session survives reloads. Implementations must treat malformed
// stored payloads as an empty draft, never as an error.
type Store interface {
	Load(ctx context.Context, assignmentID string) (models.Draft, error)
	Save(ctx context.Context, assignmentID string, draft models.Draft) error
	Clear(ctx context.Context, assignmentID string) error
}

// draftRecord is one locally cached draft. Key layout matches the
// original client's storage: "responsesDraft-" + assignment id.
type draftRecord struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Payload   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (draftRecord) TableName() string {
	return "response_drafts"
}

// Key derives the storage key for one assignment's draft.
func Key(assignmentID string) string {
	return "responsesDraft-" + assignmentID
}

type gormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore creates a draft store backed by the given GORM database
// (SQLite in production wiring) and migrates its schema.
func NewStore(db *gorm.DB, logger *slog.Logger) (Store, error) {
	if err := db.AutoMigrate(&draftRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate draft schema: %w", err)
	}

	return &gormStore{
		db:     db,
		logger: logger,
	}, nil
}

func (s *gormStore) Load(ctx context.Context, assignmentID string) (models.Draft, error) {
	var record draftRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", Key(assignmentID)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EmptyDraft(), nil
	}
	if err != nil {
		return models.EmptyDraft(), fmt.Errorf("failed to load draft: %w", err)
	}

	var draft models.Draft
	if err := json.Unmarshal(record.Payload, &draft); err != nil {
		s.logger.Warn("Discarding malformed draft payload",
			"assignment_id", assignmentID,
			"error", err)
		return models.EmptyDraft(), nil
	}

	if draft.Answers == nil {
		draft.Answers = map[string]string{}
	}
	if draft.Transcripts == nil {
		draft.Transcripts = map[string]string{}
	}

	return draft, nil
}

func (s *gormStore) Save(ctx context.Context, assignmentID string, draft models.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	record := draftRecord{
		Key:       Key(assignmentID),
		Payload:   payload,
		UpdatedAt: time.Now(),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

func (s *gormStore) Clear(ctx context.Context, assignmentID string) error {
	err := s.db.WithContext(ctx).
		Delete(&draftRecord{}, "key = ?", Key(assignmentID)).Error
	if err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}

	s.logger.Info("Draft cleared", "assignment_id", assignmentID)
	return nil
}
