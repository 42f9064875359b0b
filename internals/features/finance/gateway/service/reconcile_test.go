package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	installmentModel "escolinha_backend/internals/features/finance/installments/model"
)

/* ==============================
   Fake do store
============================== */

type fakeStore struct {
	byGatewayID map[string]*installmentModel.InstallmentModel
	markedID    *uuid.UUID
	markedAt    time.Time
	method      string
	markErr     error
}

func (s *fakeStore) FindByGatewayID(ctx context.Context, gatewayID string) (*installmentModel.InstallmentModel, error) {
	inst, ok := s.byGatewayID[gatewayID]
	if !ok {
		return nil, ErrInstallmentNotFound
	}
	return inst, nil
}

func (s *fakeStore) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, method string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.markedID = &id
	s.markedAt = paidAt
	s.method = method
	return nil
}

func pendingInstallment(gatewayID string) *installmentModel.InstallmentModel {
	return &installmentModel.InstallmentModel{
		InstallmentID:                   uuid.New(),
		InstallmentStatus:               installmentModel.InstallmentStatusPending,
		InstallmentGatewayIntegrationID: &gatewayID,
	}
}

func TestReconcile_IgnoresIrrelevantEvents(t *testing.T) {
	store := &fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{}}

	cases := []WebhookEvent{
		{Event: "PAYMENT_CREATED", Payment: &WebhookPayment{ID: "pay_1"}},
		{Event: "PAYMENT_OVERDUE", Payment: &WebhookPayment{ID: "pay_1"}},
		{Event: "PAYMENT_RECEIVED", Payment: nil},
		{Event: "PAYMENT_RECEIVED", Payment: &WebhookPayment{ID: "  "}},
	}
	for _, ev := range cases {
		res, err := Reconcile(context.Background(), store, ev)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, res.Outcome)
	}
	assert.Nil(t, store.markedID)
}

func TestReconcile_UnknownChargeIsAck(t *testing.T) {
	store := &fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{}}

	res, err := Reconcile(context.Background(), store, WebhookEvent{
		Event:   "PAYMENT_RECEIVED",
		Payment: &WebhookPayment{ID: "pay_fantasma"},
	})
	assert.NoError(t, err)
	assert.Equal(t, OutcomeUnknownCharge, res.Outcome)
}

func TestReconcile_AlreadyPaidIsIdempotent(t *testing.T) {
	inst := pendingInstallment("pay_1")
	inst.InstallmentStatus = installmentModel.InstallmentStatusPaid
	store := &fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{"pay_1": inst}}

	res, err := Reconcile(context.Background(), store, WebhookEvent{
		Event:   "PAYMENT_CONFIRMED",
		Payment: &WebhookPayment{ID: "pay_1"},
	})
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyPaid, res.Outcome)
	assert.Nil(t, store.markedID)
}

func TestReconcile_MarksPaidWithDateAndMethod(t *testing.T) {
	inst := pendingInstallment("pay_1")
	store := &fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{"pay_1": inst}}

	res, err := Reconcile(context.Background(), store, WebhookEvent{
		Event:   "PAYMENT_RECEIVED",
		Payment: &WebhookPayment{ID: "pay_1", PaymentDate: "2026-03-01", BillingType: "PIX"},
	})
	assert.NoError(t, err)
	assert.Equal(t, OutcomePaid, res.Outcome)
	assert.Equal(t, inst.InstallmentID, *store.markedID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), store.markedAt)
	assert.Equal(t, "pix", store.method)
}

func TestReconcile_MissingPaymentDateFallsBackToNow(t *testing.T) {
	inst := pendingInstallment("pay_1")
	store := &fakeStore{byGatewayID: map[string]*installmentModel.InstallmentModel{"pay_1": inst}}

	before := time.Now()
	res, err := Reconcile(context.Background(), store, WebhookEvent{
		Event:   "PAYMENT_RECEIVED",
		Payment: &WebhookPayment{ID: "pay_1", BillingType: "BOLETO"},
	})
	assert.NoError(t, err)
	assert.Equal(t, OutcomePaid, res.Outcome)
	assert.False(t, store.markedAt.Before(before))
	assert.Equal(t, "boleto", store.method)
}

func TestReconcile_StoreFailurePropagates(t *testing.T) {
	inst := pendingInstallment("pay_1")
	store := &fakeStore{
		byGatewayID: map[string]*installmentModel.InstallmentModel{"pay_1": inst},
		markErr:     errors.New("deadlock"),
	}

	_, err := Reconcile(context.Background(), store, WebhookEvent{
		Event:   "PAYMENT_RECEIVED",
		Payment: &WebhookPayment{ID: "pay_1"},
	})
	assert.Error(t, err)
}

func TestMapBillingType(t *testing.T) {
	assert.Equal(t, "pix", MapBillingType("PIX"))
	assert.Equal(t, "pix", MapBillingType(" pix "))
	assert.Equal(t, "boleto", MapBillingType("BOLETO"))
	assert.Equal(t, "boleto", MapBillingType("CREDIT_CARD"))
	assert.Equal(t, "boleto", MapBillingType(""))
}
