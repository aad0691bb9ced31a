package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/servease/servease-backend/internal/cart"
	"github.com/servease/servease-backend/internal/catalog"
	"github.com/servease/servease-backend/internal/orders"
	"github.com/servease/servease-backend/internal/pricing"
	"github.com/servease/servease-backend/internal/promotions"
	dbpkg "github.com/servease/servease-backend/pkg/db"
	"github.com/servease/servease-backend/pkg/db/models"
	"github.com/servease/servease-backend/pkg/enums"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/outbox"
	"github.com/servease/servease-backend/pkg/outbox/idempotency"
	"github.com/servease/servease-backend/pkg/outbox/payloads"
)

const idempotencyScope = "checkout"

// Service exposes order total preview and checkout submission.
type Service interface {
	PreviewTotal(ctx context.Context, sessionID, promoCode string) (*OrderTotal, error)
	Submit(ctx context.Context, input SubmitInput) (*models.Order, error)
}

// SubmitInput carries one checkout submission.
type SubmitInput struct {
	SessionID      string
	PromoCode      string
	IdempotencyKey string
}

type service struct {
	sessions    *cart.SessionManager
	catalogRepo *catalog.Repository
	ordersRepo  *orders.Repository
	promoRepo   *promotions.Repository
	outboxSvc   *outbox.Service
	dbClient    *dbpkg.Client
	idem        *idempotency.Manager
	rule        DeliveryRule
	logg        *logger.Logger
}

// NewService constructs a checkout service instance. The idempotency manager
// may be nil, in which case duplicate submissions are not guarded.
func NewService(
	sessions *cart.SessionManager,
	catalogRepo *catalog.Repository,
	ordersRepo *orders.Repository,
	promoRepo *promotions.Repository,
	outboxSvc *outbox.Service,
	dbClient *dbpkg.Client,
	idem *idempotency.Manager,
	rule DeliveryRule,
	logg *logger.Logger,
) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("cart session manager required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if promoRepo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if rule == nil {
		return nil, fmt.Errorf("delivery rule required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions:    sessions,
		catalogRepo: catalogRepo,
		ordersRepo:  ordersRepo,
		promoRepo:   promoRepo,
		outboxSvc:   outboxSvc,
		dbClient:    dbClient,
		idem:        idem,
		rule:        rule,
		logg:        logg,
	}, nil
}

// PreviewTotal assembles the current order total without submitting.
// Promotion mistakes surface on the result, not as errors.
func (s *service) PreviewTotal(ctx context.Context, sessionID, promoCode string) (*OrderTotal, error) {
	store, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, store.Snapshot())
	if err != nil {
		return nil, err
	}

	var registry promotions.Registry
	if promoCode != "" {
		registry, err = s.promoRepo.LoadRegistry(ctx)
		if err != nil {
			return nil, err
		}
	}

	total, err := Assemble(lines, s.rule, promoCode, registry)
	if err != nil {
		return nil, quoteError(err)
	}
	return total, nil
}

// Submit assembles the cart into an order, persists it with its outbox event
// in one transaction, decrements stock, and destroys the cart.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	if s.idem != nil && input.IdempotencyKey != "" {
		processed, err := s.idem.CheckAndMarkProcessed(ctx, idempotencyScope, input.IdempotencyKey)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency check")
		}
		if processed {
			return s.replay(ctx, input.IdempotencyKey)
		}
	}

	order, err := s.submit(ctx, input)
	if err != nil {
		if s.idem != nil && input.IdempotencyKey != "" {
			if delErr := s.idem.Delete(ctx, idempotencyScope, input.IdempotencyKey); delErr != nil {
				s.logg.Error(ctx, "releasing idempotency key", delErr)
			}
		}
		return nil, err
	}

	if s.idem != nil && input.IdempotencyKey != "" {
		if err := s.idem.StoreResult(ctx, idempotencyScope, input.IdempotencyKey, order.ID.String()); err != nil {
			s.logg.Error(ctx, "recording idempotency result", err)
		}
	}
	return order, nil
}

// replay answers a retried idempotency key with the originally created
// order. A key marked processed before its result was recorded means the
// first submission is still in flight, which stays a conflict.
func (s *service) replay(ctx context.Context, key string) (*models.Order, error) {
	recorded, err := s.idem.Result(ctx, idempotencyScope, key)
	if err != nil {
		if errors.Is(err, idempotency.ErrNoResult) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already submitted")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency result")
	}
	orderID, err := uuid.Parse(recorded)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already submitted")
	}
	return s.ordersRepo.FindByID(ctx, orderID)
}

func (s *service) submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	store, err := s.sessions.Load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	snapshot := store.Snapshot()
	if len(snapshot) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines, err := s.buildLines(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	var registry promotions.Registry
	if input.PromoCode != "" {
		registry, err = s.promoRepo.LoadRegistry(ctx)
		if err != nil {
			return nil, err
		}
	}

	total, err := Assemble(lines, s.rule, input.PromoCode, registry)
	if err != nil {
		return nil, quoteError(err)
	}
	if total.PromotionError != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown promotion code")
	}

	order := orderFromTotal(input, total)
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.ordersRepo.WithTx(tx)
		txCatalog := s.catalogRepo.WithTx(tx)

		if _, err := txOrders.Create(ctx, order); err != nil {
			return err
		}

		for _, line := range total.Lines {
			if err := txCatalog.DecrementStock(ctx, line.Item.ItemID, line.Item.Quantity); err != nil {
				return err
			}
			item, err := txCatalog.FindByID(ctx, line.Item.ItemID)
			if err != nil {
				return err
			}
			if item.AvailableStock == 0 {
				event := outbox.DomainEvent{
					EventType:     enums.EventStockDepleted,
					AggregateType: enums.AggregateCatalog,
					AggregateID:   item.ID,
					Data:          payloads.StockDepletedEvent{CatalogItemID: item.ID, Name: item.Name},
					Version:       1,
				}
				if err := s.outboxSvc.EmitIfNotExists(ctx, tx, event); err != nil {
					return err
				}
			}
		}

		submitted := outbox.DomainEvent{
			EventType:     enums.EventOrderSubmitted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Session:       &outbox.SessionRef{SessionID: input.SessionID},
			Data: payloads.OrderSubmittedEvent{
				OrderID:         order.ID,
				SessionID:       input.SessionID,
				SubtotalCents:   order.SubtotalCents,
				GrandTotalCents: order.GrandTotalCents,
				LineCount:       len(order.LineItems),
			},
			Version:    1,
			OccurredAt: time.Now().UTC(),
		}
		return s.outboxSvc.Emit(ctx, tx, submitted)
	}); err != nil {
		return nil, err
	}

	// Checkout destroys the cart. A failed drop only delays expiry of the
	// snapshot key, so it is logged and ignored.
	store.Clear()
	if err := s.sessions.Drop(ctx, input.SessionID); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, input.SessionID), "dropping cart after checkout", err)
	}

	return order, nil
}

func (s *service) buildLines(ctx context.Context, snapshot []cart.LineItem) ([]Line, error) {
	lines := make([]Line, 0, len(snapshot))
	for _, item := range snapshot {
		listing, err := s.catalogRepo.FindByID(ctx, item.ItemID)
		if err != nil {
			return nil, err
		}
		if !listing.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "catalog item no longer available").
				WithDetails(map[string]any{"item_id": item.ItemID})
		}
		lines = append(lines, Line{
			Item:         item,
			Schedule:     catalog.Schedule(listing),
			DepositCents: listing.SecurityDepositCents,
		})
	}
	return lines, nil
}

func orderFromTotal(input SubmitInput, total *OrderTotal) *models.Order {
	order := &models.Order{
		ID:                   uuid.New(),
		SessionID:            input.SessionID,
		Status:               enums.OrderStatusSubmitted,
		SubtotalCents:        total.SubtotalCents,
		DeliveryFeeCents:     total.DeliveryFeeCents,
		DiscountCents:        total.DiscountCents,
		SecurityDepositCents: total.SecurityDepositCents,
		GrandTotalCents:      total.GrandTotalCents,
	}
	if total.AppliedPromotion != "" {
		applied := total.AppliedPromotion
		order.PromotionCode = &applied
	}
	for _, line := range total.Lines {
		raw := json.RawMessage("{}")
		if envelope, err := pricing.EncodeContext(line.Item.Context); err == nil {
			if encoded, err := json.Marshal(envelope); err == nil {
				raw = encoded
			}
		}
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			CatalogItemID:  line.Item.ItemID,
			Quantity:       line.Item.Quantity,
			UnitContext:    raw,
			UnitTotalCents: line.Quote.TotalCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return order
}

func quoteError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "pricing cart").
		WithDetails(map[string]any{"reason": err.Error()})
}
