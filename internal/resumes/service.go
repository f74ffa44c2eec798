package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/resume/model"
)

// Service records exported resumes and reads the owner's history back.
type Service struct {
	Repo  Repo
	Store object.Store

	now   func() time.Time
	newID func() string
}

func NewService(repo Repo, store object.Store) *Service {
	return &Service{Repo: repo, Store: store, now: time.Now, newID: uuid.NewString}
}

// Record appends a history entry for an uploaded export.
func (s *Service) Record(ctx context.Context, userID, template string, draft model.ResumeDraft, up Upload) (Record, error) {
	if s == nil || s.Repo == nil {
		return Record{}, errors.New("resumes service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if up.FileName == "" || up.DownloadURL == "" {
		return Record{}, fmt.Errorf("%w: upload is incomplete", ErrInvalidInput)
	}
	record := NewRecord(s.newID(), userID, template, draft, up, s.now().UTC())
	if err := s.Repo.Create(ctx, record); err != nil {
		return Record{}, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) Get(ctx context.Context, userID, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// OpenFile streams a stored export by its object key.
func (s *Service) OpenFile(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("object store not configured")
	}
	clean, err := object.CleanKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	rc, err := s.Store.Open(ctx, clean)
	if errors.Is(err, object.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rc, err
}
