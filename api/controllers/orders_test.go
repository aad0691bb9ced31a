package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/servease/servease-backend/api/middleware"
	ordersrepo "github.com/servease/servease-backend/internal/orders"
	"github.com/servease/servease-backend/pkg/db/models"
	"github.com/servease/servease-backend/pkg/enums"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/pagination"
)

type stubOrderReader struct {
	order      *models.Order
	orders     []models.Order
	nextCursor string
	err        error
	limit      int
}

func (s *stubOrderReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrderReader) ListBySession(ctx context.Context, sessionID string, params pagination.Params) (*ordersrepo.SessionOrderPage, error) {
	s.limit = params.Limit
	if s.err != nil {
		return nil, s.err
	}
	return &ordersrepo.SessionOrderPage{Orders: s.orders, NextCursor: s.nextCursor}, nil
}

func TestOrderListSuccess(t *testing.T) {
	reader := &stubOrderReader{
		orders: []models.Order{
			{ID: uuid.New(), SessionID: "sess-1", Status: enums.OrderStatusSubmitted},
			{ID: uuid.New(), SessionID: "sess-1", Status: enums.OrderStatusExpired},
		},
		nextCursor: "next-page",
	}
	handler := OrderList(reader, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=5", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if reader.limit != 5 {
		t.Fatalf("expected limit 5, got %d", reader.limit)
	}
	var envelope struct {
		Data OrderListView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(envelope.Data.Orders))
	}
	if envelope.Data.NextCursor != "next-page" {
		t.Fatalf("unexpected next cursor: %q", envelope.Data.NextCursor)
	}
}

func TestOrderListBadLimit(t *testing.T) {
	handler := OrderList(&stubOrderReader{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=0", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderDetailOwnership(t *testing.T) {
	orderID := uuid.New()
	reader := &stubOrderReader{order: &models.Order{ID: orderID, SessionID: "other-session"}}
	handler := OrderDetail(reader, nil)

	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", orderID.String())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	orderID := uuid.New()
	reader := &stubOrderReader{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := OrderDetail(reader, nil)

	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", orderID.String())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
