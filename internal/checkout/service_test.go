package checkout

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
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
)

type memorySnapshots struct {
	data map[string][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[string][]byte)}
}

func (m *memorySnapshots) StoreCartSnapshot(_ context.Context, sessionID string, payload []byte, _ time.Duration) error {
	m.data[sessionID] = payload
	return nil
}

func (m *memorySnapshots) GetCartSnapshot(_ context.Context, sessionID string) ([]byte, error) {
	raw, ok := m.data[sessionID]
	if !ok {
		return nil, goredis.Nil
	}
	return raw, nil
}

func (m *memorySnapshots) DeleteCartSnapshot(_ context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

type fakeIdemStore struct {
	data map[string]string
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{data: make(map[string]string)}
}

func (f *fakeIdemStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeIdemStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeIdemStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeIdemStore) IdempotencyKey(scope, id string) string {
	return "svz:idempotency:" + scope + ":" + id
}

func (f *fakeIdemStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func testSessions(t *testing.T, snapshots *memorySnapshots) *cart.SessionManager {
	t.Helper()
	manager, err := cart.NewSessionManager(snapshots, testLogger(), time.Hour)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return manager
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SERVEASE_DB_DSN")
	if dsn == "" {
		t.Skip("SERVEASE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB, snapshots *memorySnapshots) Service {
	t.Helper()
	logg := testLogger()
	svc, err := NewService(
		testSessions(t, snapshots),
		catalog.NewRepository(conn),
		orders.NewRepository(conn),
		promotions.NewRepository(conn),
		outbox.NewService(outbox.NewRepository(conn), logg),
		dbpkg.NewWithConn(conn),
		nil,
		FlatFee(50),
		logg,
	)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	return svc
}

func TestSubmitIdempotentReplay(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	snapshots := newMemorySnapshots()
	logg := testLogger()
	idem, err := idempotency.NewManager(newFakeIdemStore(), time.Hour)
	if err != nil {
		t.Fatalf("idempotency manager: %v", err)
	}
	svc, err := NewService(
		testSessions(t, snapshots),
		catalog.NewRepository(conn),
		orders.NewRepository(conn),
		promotions.NewRepository(conn),
		outbox.NewService(outbox.NewRepository(conn), logg),
		dbpkg.NewWithConn(conn),
		idem,
		FlatFee(50),
		logg,
	)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	weekly := int64(600)
	item := &models.CatalogItem{
		ID:              uuid.New(),
		Name:            "Pressure washer",
		Kind:            enums.ServiceKindRental,
		DailyRateCents:  100,
		WeeklyRateCents: &weekly,
		MinimumUnits:    1,
		MaximumUnits:    90,
		AvailableStock:  5,
		IsActive:        true,
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	t.Cleanup(func() {
		conn.Delete(&models.OutboxEvent{}, "aggregate_id = ?", item.ID)
		conn.Delete(&models.CatalogItem{}, "id = ?", item.ID)
	})

	sessionID := "replay-" + uuid.NewString()
	payload, err := cart.MarshalSnapshot([]cart.LineItem{{
		ItemID:         item.ID,
		Quantity:       1,
		AvailableStock: item.AvailableStock,
		Context:        pricing.RentalContext{TotalUnits: 10},
	}})
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := snapshots.StoreCartSnapshot(ctx, sessionID, payload, time.Hour); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	key := "retry-" + uuid.NewString()
	first, err := svc.Submit(ctx, SubmitInput{SessionID: sessionID, IdempotencyKey: key})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	t.Cleanup(func() {
		conn.Delete(&models.OrderLineItem{}, "order_id = ?", first.ID)
		conn.Delete(&models.OutboxEvent{}, "aggregate_id = ?", first.ID)
		conn.Delete(&models.Order{}, "id = ?", first.ID)
	})

	second, err := svc.Submit(ctx, SubmitInput{SessionID: sessionID, IdempotencyKey: key})
	if err != nil {
		t.Fatalf("retried submit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("retry created a new order: %s vs %s", second.ID, first.ID)
	}

	var orderCount int64
	if err := conn.Model(&models.Order{}).Where("session_id = ?", sessionID).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 1 {
		t.Fatalf("expected a single order for the session, got %d", orderCount)
	}
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, nil, nil, nil, nil, nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected constructor error")
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn, newMemorySnapshots())

	_, err := svc.Submit(context.Background(), SubmitInput{SessionID: "empty-sess"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	snapshots := newMemorySnapshots()
	svc := newTestService(t, conn, snapshots)

	weekly := int64(600)
	item := &models.CatalogItem{
		ID:              uuid.New(),
		Name:            "Party tent",
		Kind:            enums.ServiceKindRental,
		DailyRateCents:  100,
		WeeklyRateCents: &weekly,
		MinimumUnits:    1,
		MaximumUnits:    90,
		AvailableStock:  5,
		IsActive:        true,
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	t.Cleanup(func() {
		conn.Delete(&models.OutboxEvent{}, "aggregate_id = ?", item.ID)
		conn.Delete(&models.CatalogItem{}, "id = ?", item.ID)
	})

	sessionID := "e2e-" + uuid.NewString()
	payload, err := cart.MarshalSnapshot([]cart.LineItem{{
		ItemID:         item.ID,
		Quantity:       2,
		AvailableStock: item.AvailableStock,
		Context:        pricing.RentalContext{TotalUnits: 10},
	}})
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := snapshots.StoreCartSnapshot(ctx, sessionID, payload, time.Hour); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	order, err := svc.Submit(ctx, SubmitInput{SessionID: sessionID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	t.Cleanup(func() {
		conn.Delete(&models.OrderLineItem{}, "order_id = ?", order.ID)
		conn.Delete(&models.OutboxEvent{}, "aggregate_id = ?", order.ID)
		conn.Delete(&models.Order{}, "id = ?", order.ID)
	})

	// quote(10 days) = 600 + 3*100 = 900; quantity 2; flat fee 50.
	if order.SubtotalCents != 1800 || order.GrandTotalCents != 1850 {
		t.Fatalf("unexpected totals %+v", order)
	}

	var reloaded models.CatalogItem
	if err := conn.First(&reloaded, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.AvailableStock != 3 {
		t.Fatalf("expected stock decremented to 3, got %d", reloaded.AvailableStock)
	}

	var eventCount int64
	err = conn.Model(&models.OutboxEvent{}).
		Where("aggregate_id = ? AND event_type = ?", order.ID, enums.EventOrderSubmitted).
		Count(&eventCount).Error
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected one submitted event, got %d", eventCount)
	}

	if _, ok := snapshots.data[sessionID]; ok {
		t.Fatal("cart snapshot should be destroyed after checkout")
	}
}
