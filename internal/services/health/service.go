package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB        Pinger
	PDFEngine string
	DocStore  string
}

// NewService constructs a new health service. db may be nil.
func NewService(db Pinger, pdfEngine, docStore string) *Service {
	return &Service{DB: db, PDFEngine: pdfEngine, DocStore: docStore}
}

// Status reports the API as ok unless the configured database is unreachable.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{
		"ok":        true,
		"pdfEngine": s.PDFEngine,
		"docStore":  s.DocStore,
		"database":  "disabled",
	}
	if s.DB == nil {
		return out, true
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		out["ok"] = false
		out["database"] = "down"
		return out, false
	}
	out["database"] = "ok"
	return out, true
}
