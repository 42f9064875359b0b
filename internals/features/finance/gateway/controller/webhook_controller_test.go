package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	installmentModel "escolinha_backend/internals/features/finance/installments/model"
	service "escolinha_backend/internals/features/finance/gateway/service"
)

type fakeStore struct {
	byGatewayID map[string]*installmentModel.InstallmentModel
	markErr     error
	marked      bool
}

func (s *fakeStore) FindByGatewayID(ctx context.Context, gatewayID string) (*installmentModel.InstallmentModel, error) {
	inst, ok := s.byGatewayID[gatewayID]
	if !ok {
		return nil, service.ErrInstallmentNotFound
	}
	return inst, nil
}

func (s *fakeStore) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, method string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = true
	return nil
}

func webhookApp(store service.ReconcileStore) *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/asaas", NewWebhookController(store).HandleAsaas)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/asaas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	return resp
}

func TestHandleAsaas_PaymentReceived(t *testing.T) {
	gatewayID := "pay_1"
	store := &fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{
		gatewayID: {
			InstallmentID:                   uuid.New(),
			InstallmentStatus:               installmentModel.InstallmentStatusPending,
			InstallmentGatewayIntegrationID: &gatewayID,
		},
	}}
	app := webhookApp(store)

	resp := postWebhook(t, app, `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_1","paymentDate":"2026-03-01","billingType":"PIX"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, store.marked)
}

func TestHandleAsaas_IgnoredEventIsAck(t *testing.T) {
	app := webhookApp(&fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{}})

	resp := postWebhook(t, app, `{"event":"PAYMENT_CREATED","payment":{"id":"pay_1"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleAsaas_UnknownChargeIsAck(t *testing.T) {
	app := webhookApp(&fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{}})

	resp := postWebhook(t, app, `{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_fantasma"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleAsaas_MalformedBodyIsAck(t *testing.T) {
	app := webhookApp(&fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{}})

	resp := postWebhook(t, app, `{{{nada a ver`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleAsaas_StoreFailureIs5xx(t *testing.T) {
	gatewayID := "pay_1"
	store := &fakeStore{
		byGatewayID: map[string]*installmentModel.InstallmentModel{
			gatewayID: {
				InstallmentID:                   uuid.New(),
				InstallmentStatus:               installmentModel.InstallmentStatusPending,
				InstallmentGatewayIntegrationID: &gatewayID,
			},
		},
		markErr: errors.New("deadlock"),
	}
	app := webhookApp(store)

	resp := postWebhook(t, app, `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1"}}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
