// Package service holds the business rules of the repair-shop API.  Services
// are stateless; every method takes the caller's company id and passes it to
// the stores, so no method can reach another tenant's rows.  Stores are
// declared here as narrow interfaces and satisfied by the repository
// package.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/model"
	"github.com/iliyamo/repair-shop/internal/queue"
)

// Publisher emits domain events.  Publishing happens after the change is
// committed and its failure never fails the request.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// LocationLookup resolves a live location of a company.
type LocationLookup interface {
	Get(ctx context.Context, companyID, id string) (model.Location, error)
}

// CustomerLookup resolves customers of a company.
type CustomerLookup interface {
	Get(ctx context.Context, companyID, id string) (model.Customer, error)
	FindMany(ctx context.Context, companyID string, ids []string) ([]model.Customer, error)
}

// UserLookup resolves users of a company.
type UserLookup interface {
	Get(ctx context.Context, companyID, id string) (model.User, error)
	FindMany(ctx context.Context, companyID string, ids []string) ([]model.User, error)
}

// base carries the collaborators every service shares.
type base struct {
	log    *zap.Logger
	events Publisher
	now    func() time.Time
	newID  func() string
}

func newBase(log *zap.Logger, events Publisher) base {
	if log == nil {
		log = zap.NewNop()
	}
	if events == nil {
		events = queue.Nop{}
	}
	return base{
		log:    log,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (b base) publish(ctx context.Context, ev queue.Event) {
	if err := b.events.Publish(ctx, ev); err != nil {
		b.log.Warn("publish event failed", zap.String("queue", ev.Queue()), zap.Error(err))
	}
}

// optional trims s and turns an empty result into nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// setOptional overwrites *dst when src is present.  A blank src clears it.
func setOptional(dst **string, src *string) {
	if src != nil {
		*dst = optional(src)
	}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
