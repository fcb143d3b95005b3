package http

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/estatedesk/estate-backend/internal/listings/draft"
	"github.com/estatedesk/estate-backend/internal/listings/service"
	"github.com/estatedesk/estate-backend/internal/listings/submit"
)

// Submitter runs the persistence orchestration for one parsed submission.
type Submitter interface {
	Submit(ctx context.Context, req *submit.Request) (*service.Result, error)
}

// CodePreviewer builds a project code without freezing it.
type CodePreviewer interface {
	Generate(ctx context.Context, city, developerName string, year int) string
}

// Handler bundles the dependencies for the listings HTTP endpoints.
type Handler struct {
	submitter Submitter
	codes     CodePreviewer
	snapshots *draft.SnapshotStore
	logger    *zap.Logger

	// Submission is not idempotent; one in-flight submission per draft.
	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(submitter Submitter, codes CodePreviewer, snapshots *draft.SnapshotStore, logger *zap.Logger) *Handler {
	return &Handler{
		submitter: submitter,
		codes:     codes,
		snapshots: snapshots,
		logger:    logger,
		inflight:  make(map[string]struct{}),
	}
}

func (h *Handler) acquire(draftID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[draftID]; busy {
		return false
	}
	h.inflight[draftID] = struct{}{}
	return true
}

func (h *Handler) release(draftID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.inflight, draftID)
}
