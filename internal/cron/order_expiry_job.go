package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/servease/servease-backend/pkg/db/models"
	"github.com/servease/servease-backend/pkg/enums"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/outbox"
	"github.com/servease/servease-backend/pkg/outbox/payloads"
)

const (
	orderExpiryDays  = 7
	expiryBatchLimit = 100
)

// txRunner runs a closure inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type expiryCandidateReader interface {
	ListExpiryCandidates(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
}

type orderExpirer interface {
	MarkExpired(tx *gorm.DB, id uuid.UUID) (bool, error)
}

type outboxEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// OrderExpiryJobParams configure the stale order scheduler.
type OrderExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Reader     expiryCandidateReader
	Expirer    orderExpirer
	Outbox     outboxEmitter
	ExpiryDays int
}

// NewOrderExpiryJob builds the cron job that expires submitted orders
// left unaccepted past the cutoff.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("expiry candidate reader required")
	}
	if params.Expirer == nil {
		return nil, fmt.Errorf("order expirer required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	days := params.ExpiryDays
	if days <= 0 {
		days = orderExpiryDays
	}
	return &orderExpiryJob{
		logg:    params.Logger,
		db:      params.DB,
		reader:  params.Reader,
		expirer: params.Expirer,
		outbox:  params.Outbox,
		days:    days,
		now:     time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg    *logger.Logger
	db      txRunner
	reader  expiryCandidateReader
	expirer orderExpirer
	outbox  outboxEmitter
	days    int
	now     func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.days) * 24 * time.Hour)
	candidates, err := j.reader.ListExpiryCandidates(ctx, cutoff, expiryBatchLimit)
	if err != nil {
		return fmt.Errorf("query expiry candidates: %w", err)
	}

	expired := 0
	var errs error
	for _, order := range candidates {
		ok, err := j.expireOrder(ctx, order)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
			continue
		}
		if ok {
			expired++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":     cutoff,
		"candidates": len(candidates),
		"expired":    expired,
	})
	j.logg.Info(logCtx, "order expiry loop complete")
	return errs
}

func (j *orderExpiryJob) expireOrder(ctx context.Context, order models.Order) (bool, error) {
	expired := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := j.expirer.MarkExpired(tx, order.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		expired = true
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderExpired,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Session:       &outbox.SessionRef{SessionID: order.SessionID},
			Version:       1,
			OccurredAt:    j.now().UTC(),
			Data: payloads.OrderExpiredEvent{
				OrderID:   order.ID,
				SessionID: order.SessionID,
			},
		}
		return j.outbox.EmitIfNotExists(ctx, tx, event)
	})
	if err != nil {
		return false, err
	}
	return expired, nil
}
