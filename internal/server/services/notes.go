package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parleychat/authcore/internal/common"
	"github.com/parleychat/authcore/internal/server/models"
	"github.com/parleychat/authcore/internal/server/repositories/repomanager"
)

// NoteService manages the free-text annotations users attach to other
// users. One note per (creator, target) pair, create-or-update on write.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

// List returns every note the caller has written.
func (s *NoteService) List(ctx context.Context, creatorID int64) ([]models.Note, error) {
	notes, err := s.repomanager.Notes(s.db).ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return notes, nil
}

// Get returns the caller's note on the target user, ErrNotFound when none
// exists.
func (s *NoteService) Get(ctx context.Context, creatorID, userID int64) (*models.Note, error) {
	note, err := s.repomanager.Notes(s.db).Get(ctx, creatorID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching note: %w", err)
	}
	return note, nil
}

// Put creates or replaces the caller's note on the target user. The target
// must exist.
func (s *NoteService) Put(ctx context.Context, creatorID, userID int64, content string) error {

	_, err := s.repomanager.Users(s.db).GetByID(ctx, userID,
		models.Projection{Only: []models.UserField{models.FieldID}})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error checking note target: %w", err)
	}

	note := &models.Note{CreatorID: creatorID, UserID: userID, Content: content}
	if err := s.repomanager.Notes(s.db).Upsert(ctx, note); err != nil {
		return fmt.Errorf("error saving note: %w", err)
	}
	return nil
}
