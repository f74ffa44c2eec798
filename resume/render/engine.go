package render

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyDocument = errors.New("render produced an empty document")

// Engine produces PDF bytes for a request.
type Engine interface {
	Name() string
	PDF(ctx context.Context, req Request) ([]byte, error)
}

// NewEngine returns the engine named by kind. Anything other than "chrome"
// uses the native engine.
func NewEngine(kind, chromePath string) Engine {
	if strings.EqualFold(strings.TrimSpace(kind), "chrome") {
		return NewChromeEngine(chromePath)
	}
	return NewNativeEngine()
}
