// file: internals/features/finance/installments/dto/installment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "escolinha_backend/internals/features/finance/installments/model"
	service "escolinha_backend/internals/features/finance/installments/service"
)

/* =============== REQUESTS =============== */

// Create - parcela nasce pendente e não publicada
type CreateInstallmentRequest struct {
	InstallmentEnrollmentID uuid.UUID `json:"installment_enrollment_id" validate:"required"`
	InstallmentNumber       int       `json:"installment_number" validate:"required,gte=1"`
	InstallmentValue        float64   `json:"installment_value" validate:"required,gt=0"`
	InstallmentDueDate      time.Time `json:"installment_due_date" validate:"required"`
}

func (r CreateInstallmentRequest) ToModel() *m.InstallmentModel {
	return &m.InstallmentModel{
		InstallmentEnrollmentID: r.InstallmentEnrollmentID,
		InstallmentNumber:       r.InstallmentNumber,
		InstallmentValue:        r.InstallmentValue,
		InstallmentDueDate:      r.InstallmentDueDate,
		InstallmentStatus:       m.InstallmentStatusPending,
	}
}

// Instruções manuais de pagamento (merge no metadata)
type SaveInstructionsRequest struct {
	PixKey     *string `json:"pix_key" validate:"omitempty"`
	BoletoCode *string `json:"boleto_code" validate:"omitempty"`
	BoletoURL  *string `json:"boleto_url" validate:"omitempty,url"`
	ManualObs  *string `json:"manual_obs" validate:"omitempty"`

	ShouldPublish bool `json:"should_publish"`
	// exigido quando should_publish=true e a parcela não tem nenhuma
	// forma de pagamento - evita publicar cobrança impagável sem querer
	Confirm bool `json:"confirm"`
}

type TogglePublishRequest struct {
	IsPublished bool `json:"is_published"`
}

type MarkPaidRequest struct {
	PaidAt        *time.Time `json:"paid_at" validate:"omitempty"`
	PaymentMethod string     `json:"payment_method" validate:"required,oneof=pix boleto credit_card debit_card cash transfer"`
	ManualObs     *string    `json:"manual_obs" validate:"omitempty"`
	Confirm       bool       `json:"confirm"`
}

type NegotiateRequest struct {
	service.NegotiationInput
	Confirm bool `json:"confirm"`
}

type UpdateDatesRequest struct {
	DueDate *time.Time `json:"due_date" validate:"omitempty"`
	PaidAt  *time.Time `json:"paid_at" validate:"omitempty"`
}

type CancelRequest struct {
	Confirm bool `json:"confirm"`
}

type GenerateRequest struct {
	Confirm bool `json:"confirm"`
}

type GenerateBatchRequest struct {
	InstallmentIDs []uuid.UUID `json:"installment_ids" validate:"required,min=1"`
}

// Ação genérica de gateway consumida pela tela de detalhe
type GatewayActionRequest struct {
	Action  string                `json:"action" validate:"required,oneof=update_value cancel"`
	Payload *GatewayActionPayload `json:"payload" validate:"omitempty"`
}

type GatewayActionPayload struct {
	NewValue         float64 `json:"newValue" validate:"omitempty,gte=0"`
	DiscountValue    float64 `json:"discount_value" validate:"omitempty,gte=0"`
	SurchargeValue   float64 `json:"surcharge_value" validate:"omitempty,gte=0"`
	NegotiationNotes string  `json:"negotiation_notes" validate:"omitempty"`
	NegotiationType  string  `json:"negotiation_type" validate:"omitempty,oneof=discount surcharge"`
}

// List / Query params
type ListInstallmentQuery struct {
	EnrollmentID *uuid.UUID `query:"enrollment_id" validate:"omitempty"`
	Status       *string    `query:"status" validate:"omitempty,oneof=pending paid cancelled"`
	Published    *bool      `query:"published" validate:"omitempty"`
	DueFrom      *time.Time `query:"due_from" validate:"omitempty"`
	DueTo        *time.Time `query:"due_to" validate:"omitempty"`
}

/* =============== RESPONSES =============== */

type InstallmentResponse struct {
	InstallmentID           uuid.UUID `json:"installment_id"`
	InstallmentEnrollmentID uuid.UUID `json:"installment_enrollment_id"`
	StudentName             string    `json:"student_name,omitempty"`

	InstallmentNumber  int       `json:"installment_number"`
	InstallmentDueDate time.Time `json:"installment_due_date"`

	InstallmentValue          float64  `json:"installment_value"`
	InstallmentOriginalValue  *float64 `json:"installment_original_value,omitempty"`
	InstallmentDiscountValue  float64  `json:"installment_discount_value"`
	InstallmentSurchargeValue float64  `json:"installment_surcharge_value"`

	InstallmentNegotiationType  *m.NegotiationType `json:"installment_negotiation_type,omitempty"`
	InstallmentNegotiationNotes *string            `json:"installment_negotiation_notes,omitempty"`
	InstallmentNegotiationDate  *time.Time         `json:"installment_negotiation_date,omitempty"`

	InstallmentStatus        m.InstallmentStatus `json:"installment_status"`
	InstallmentIsPublished   bool                `json:"installment_is_published"`
	InstallmentPaidAt        *time.Time          `json:"installment_paid_at,omitempty"`
	InstallmentPaymentMethod *string             `json:"installment_payment_method,omitempty"`

	InstallmentGatewayIntegrationID *string `json:"installment_gateway_integration_id,omitempty"`
	InstallmentBillingURL           *string `json:"installment_billing_url,omitempty"`

	Metadata m.InstallmentMetadata `json:"metadata"`

	InstallmentCreatedAt time.Time `json:"installment_created_at"`
}

/* =============== MAPPERS =============== */

func FromModel(x m.InstallmentModel) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:                   x.InstallmentID,
		InstallmentEnrollmentID:         x.InstallmentEnrollmentID,
		StudentName:                     x.Enrollment.Student.StudentName,
		InstallmentNumber:               x.InstallmentNumber,
		InstallmentDueDate:              x.InstallmentDueDate,
		InstallmentValue:                x.InstallmentValue,
		InstallmentOriginalValue:        x.InstallmentOriginalValue,
		InstallmentDiscountValue:        x.InstallmentDiscountValue,
		InstallmentSurchargeValue:       x.InstallmentSurchargeValue,
		InstallmentNegotiationType:      x.InstallmentNegotiationType,
		InstallmentNegotiationNotes:     x.InstallmentNegotiationNotes,
		InstallmentNegotiationDate:      x.InstallmentNegotiationDate,
		InstallmentStatus:               x.InstallmentStatus,
		InstallmentIsPublished:          x.InstallmentIsPublished,
		InstallmentPaidAt:               x.InstallmentPaidAt,
		InstallmentPaymentMethod:        x.InstallmentPaymentMethod,
		InstallmentGatewayIntegrationID: x.InstallmentGatewayIntegrationID,
		InstallmentBillingURL:           x.InstallmentBillingURL,
		Metadata:                        x.Meta(),
		InstallmentCreatedAt:            x.InstallmentCreatedAt,
	}
}

func FromModels(list []m.InstallmentModel) []InstallmentResponse {
	out := make([]InstallmentResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
