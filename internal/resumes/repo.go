package resumes

import "context"

// Repo defines persistence operations for exported resumes.
type Repo interface {
	Create(ctx context.Context, record Record) error
	GetByID(ctx context.Context, userID, id string) (Record, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error)
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
