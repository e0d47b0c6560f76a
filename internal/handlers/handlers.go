// Package handlers exposes the HTTP API: image classification, report
// submission and listing, user accounts, and service introspection.
package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Ashwin76038/civic-ai/internal/classify"
	"github.com/Ashwin76038/civic-ai/internal/feed"
	"github.com/Ashwin76038/civic-ai/internal/model"
)

// ReportStore is the persistence surface the report handlers need.
// Satisfied by *store.Store.
type ReportStore interface {
	InsertReport(ctx context.Context, report *model.Report) (string, error)
	ListReports(ctx context.Context) ([]model.Report, error)
}

// UserStore is the account surface the auth handlers need. Satisfied by
// *store.Store.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

// Handler bundles the API dependencies.
type Handler struct {
	classifier classify.Classifier
	reports    ReportStore
	users      UserStore
	hub        *feed.Hub
	registry   *classify.Registry
	logger     *zap.Logger
	startTime  time.Time

	predictions  atomic.Int64
	predictFails atomic.Int64
	submissions  atomic.Int64
}

// New wires the handler set. registry may be nil in the stub classifier
// profile; hub may be nil when the feed is disabled.
func New(classifier classify.Classifier, reports ReportStore, users UserStore, hub *feed.Hub, registry *classify.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		classifier: classifier,
		reports:    reports,
		users:      users,
		hub:        hub,
		registry:   registry,
		logger:     logger,
		startTime:  time.Now(),
	}
}
