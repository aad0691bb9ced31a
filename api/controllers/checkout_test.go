package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/servease/servease-backend/api/middleware"
	checkoutsvc "github.com/servease/servease-backend/internal/checkout"
	"github.com/servease/servease-backend/pkg/db/models"
	"github.com/servease/servease-backend/pkg/enums"
	pkgerrors "github.com/servease/servease-backend/pkg/errors"
)

type stubCheckout struct {
	order *models.Order
	err   error
	input checkoutsvc.SubmitInput
}

func (s *stubCheckout) PreviewTotal(ctx context.Context, sessionID, promoCode string) (*checkoutsvc.OrderTotal, error) {
	return nil, nil
}

func (s *stubCheckout) Submit(ctx context.Context, input checkoutsvc.SubmitInput) (*models.Order, error) {
	s.input = input
	return s.order, s.err
}

func TestCheckoutSubmitSuccess(t *testing.T) {
	order := &models.Order{
		ID:              uuid.New(),
		SessionID:       "sess-1",
		Status:          enums.OrderStatusSubmitted,
		SubtotalCents:   1800,
		GrandTotalCents: 1850,
	}
	svc := &stubCheckout{order: order}
	handler := CheckoutSubmit(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"promoCode":"WELCOME"}`))
	req.Header.Set("Idempotency-Key", "key-123")
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input.SessionID != "sess-1" {
		t.Fatalf("unexpected session id: %s", svc.input.SessionID)
	}
	if svc.input.PromoCode != "WELCOME" {
		t.Fatalf("unexpected promo code: %s", svc.input.PromoCode)
	}
	if svc.input.IdempotencyKey != "key-123" {
		t.Fatalf("unexpected idempotency key: %s", svc.input.IdempotencyKey)
	}

	var envelope struct {
		Data OrderView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != order.ID {
		t.Fatalf("unexpected order id: %s", envelope.Data.ID)
	}
	if envelope.Data.GrandTotalCents != 1850 {
		t.Fatalf("unexpected grand total: %d", envelope.Data.GrandTotalCents)
	}
}

func TestCheckoutSubmitEmptyCart(t *testing.T) {
	svc := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := CheckoutSubmit(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutSubmitMissingSession(t *testing.T) {
	handler := CheckoutSubmit(&stubCheckout{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
