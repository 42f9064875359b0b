// file: internals/features/finance/gateway/service/reconcile.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	installmentModel "escolinha_backend/internals/features/finance/installments/model"
)

/* ==============================
   Evento recebido do gateway
============================== */

type WebhookPayment struct {
	ID          string `json:"id"`
	PaymentDate string `json:"paymentDate,omitempty"`
	BillingType string `json:"billingType"`
}

type WebhookEvent struct {
	Event   string          `json:"event"`
	Payment *WebhookPayment `json:"payment"`
}

// Desfechos do reconcile. Tudo que "não é problema nosso" é ACK (200),
// para não alimentar tempestade de retries do gateway.
type ReconcileOutcome string

const (
	OutcomeIgnored       ReconcileOutcome = "ignored"
	OutcomeUnknownCharge ReconcileOutcome = "unknown_charge"
	OutcomeAlreadyPaid   ReconcileOutcome = "already_paid"
	OutcomePaid          ReconcileOutcome = "paid"
)

type ReconcileResult struct {
	Outcome ReconcileOutcome
	Message string
}

// ReconcileStore - superfície mínima de persistência do reconcile;
// os testes usam um fake em memória.
type ReconcileStore interface {
	FindByGatewayID(ctx context.Context, gatewayID string) (*installmentModel.InstallmentModel, error)
	MarkPaid(ctx context.Context, installmentID uuid.UUID, paidAt time.Time, method string) error
}

var ErrInstallmentNotFound = errors.New("parcela não encontrada")

// MapBillingType converte o billingType do gateway para o nosso payment_method.
func MapBillingType(billingType string) string {
	if strings.EqualFold(strings.TrimSpace(billingType), "PIX") {
		return "pix"
	}
	return "boleto"
}

func handledEvent(event string) bool {
	switch event {
	case "PAYMENT_RECEIVED", "PAYMENT_CONFIRMED":
		return true
	}
	return false
}

// Reconcile aplica um evento de confirmação de pagamento na parcela, de forma
// idempotente. Erros retornados aqui viram 5xx (o gateway reentrega depois).
func Reconcile(ctx context.Context, store ReconcileStore, ev WebhookEvent) (ReconcileResult, error) {
	if ev.Payment == nil || strings.TrimSpace(ev.Payment.ID) == "" || !handledEvent(ev.Event) {
		return ReconcileResult{
			Outcome: OutcomeIgnored,
			Message: fmt.Sprintf("evento ignorado: %s", ev.Event),
		}, nil
	}

	inst, err := store.FindByGatewayID(ctx, ev.Payment.ID)
	if err != nil {
		if errors.Is(err, ErrInstallmentNotFound) {
			return ReconcileResult{
				Outcome: OutcomeUnknownCharge,
				Message: fmt.Sprintf("nenhuma parcela com gateway_integration_id %s", ev.Payment.ID),
			}, nil
		}
		return ReconcileResult{}, err
	}

	// guard de idempotência: reentrega de webhook em parcela já paga é no-op
	if inst.InstallmentStatus == installmentModel.InstallmentStatusPaid {
		return ReconcileResult{
			Outcome: OutcomeAlreadyPaid,
			Message: "parcela já estava paga",
		}, nil
	}

	paidAt := time.Now()
	if raw := strings.TrimSpace(ev.Payment.PaymentDate); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			paidAt = t
		}
	}

	if err := store.MarkPaid(ctx, inst.InstallmentID, paidAt, MapBillingType(ev.Payment.BillingType)); err != nil {
		return ReconcileResult{}, err
	}

	return ReconcileResult{
		Outcome: OutcomePaid,
		Message: "pagamento confirmado",
	}, nil
}

/* ==============================
   Implementação GORM do store
============================== */

type GormReconcileStore struct {
	DB *gorm.DB
}

func NewGormReconcileStore(db *gorm.DB) *GormReconcileStore {
	return &GormReconcileStore{DB: db}
}

func (s *GormReconcileStore) FindByGatewayID(ctx context.Context, gatewayID string) (*installmentModel.InstallmentModel, error) {
	var inst installmentModel.InstallmentModel
	if err := s.DB.WithContext(ctx).
		Where("installment_gateway_integration_id = ?", gatewayID).
		First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstallmentNotFound
		}
		return nil, err
	}
	return &inst, nil
}

func (s *GormReconcileStore) MarkPaid(ctx context.Context, installmentID uuid.UUID, paidAt time.Time, method string) error {
	return s.DB.WithContext(ctx).
		Model(&installmentModel.InstallmentModel{}).
		Where("installment_id = ?", installmentID).
		Updates(map[string]interface{}{
			"installment_status":         installmentModel.InstallmentStatusPaid,
			"installment_paid_at":        paidAt,
			"installment_payment_method": method,
			"installment_updated_at":     time.Now(),
		}).Error
}
