// file: internals/features/finance/installments/model/installment_model.go
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	enrollmentModel "escolinha_backend/internals/features/school/enrollments/model"
)

/* ==============================
   ENUMS - status & negociação
============================== */

type InstallmentStatus string

const (
	InstallmentStatusPending   InstallmentStatus = "pending"
	InstallmentStatusPaid      InstallmentStatus = "paid"
	InstallmentStatusCancelled InstallmentStatus = "cancelled"
)

type NegotiationType string

const (
	NegotiationTypeDiscount  NegotiationType = "discount"
	NegotiationTypeSurcharge NegotiationType = "surcharge"
)

/* ==============================================
   METADATA - sub-estrutura tipada do JSONB
   (instruções manuais de pagamento + observações)
============================================== */

type InstallmentMetadata struct {
	PixKey     string `json:"pix_key,omitempty"`
	BoletoCode string `json:"boleto_code,omitempty"`
	BoletoURL  string `json:"boleto_url,omitempty"`
	ManualObs  string `json:"manual_obs,omitempty"`
}

type InstallmentModel struct {
	// PK
	InstallmentID uuid.UUID `gorm:"column:installment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"installment_id"`

	// FK → enrollments
	InstallmentEnrollmentID uuid.UUID                       `gorm:"column:installment_enrollment_id;type:uuid;not null;index" json:"installment_enrollment_id"`
	Enrollment              enrollmentModel.EnrollmentModel `gorm:"foreignKey:InstallmentEnrollmentID;references:EnrollmentID" json:"enrollment,omitempty"`

	// Agenda
	InstallmentNumber  int       `gorm:"column:installment_number;type:int;not null;default:1" json:"installment_number"`
	InstallmentDueDate time.Time `gorm:"column:installment_due_date;type:date;not null;index" json:"installment_due_date"`

	// Financeiro
	InstallmentValue          float64  `gorm:"column:installment_value;type:numeric(12,2);not null;check:installment_value>=0" json:"installment_value"`
	InstallmentOriginalValue  *float64 `gorm:"column:installment_original_value;type:numeric(12,2)" json:"installment_original_value,omitempty"`
	InstallmentDiscountValue  float64  `gorm:"column:installment_discount_value;type:numeric(12,2);not null;default:0" json:"installment_discount_value"`
	InstallmentSurchargeValue float64  `gorm:"column:installment_surcharge_value;type:numeric(12,2);not null;default:0" json:"installment_surcharge_value"`

	InstallmentNegotiationType  *NegotiationType `gorm:"column:installment_negotiation_type;type:varchar(20)" json:"installment_negotiation_type,omitempty"`
	InstallmentNegotiationNotes *string          `gorm:"column:installment_negotiation_notes;type:text" json:"installment_negotiation_notes,omitempty"`
	InstallmentNegotiationDate  *time.Time       `gorm:"column:installment_negotiation_date;type:timestamptz" json:"installment_negotiation_date,omitempty"`

	// Ciclo de vida
	InstallmentStatus        InstallmentStatus `gorm:"column:installment_status;type:varchar(20);not null;default:'pending';index" json:"installment_status"`
	InstallmentIsPublished   bool              `gorm:"column:installment_is_published;not null;default:false;index" json:"installment_is_published"`
	InstallmentPaidAt        *time.Time        `gorm:"column:installment_paid_at;type:timestamptz" json:"installment_paid_at,omitempty"`
	InstallmentPaymentMethod *string           `gorm:"column:installment_payment_method;type:varchar(20)" json:"installment_payment_method,omitempty"`

	// Integração com o gateway - preenchidos somente pela geração de cobrança
	InstallmentGatewayIntegrationID *string `gorm:"column:installment_gateway_integration_id;type:varchar(80);index" json:"installment_gateway_integration_id,omitempty"`
	InstallmentBillingURL           *string `gorm:"column:installment_billing_url;type:text" json:"installment_billing_url,omitempty"`

	// JSONB livre; ler sempre via Meta()
	InstallmentMetadataJSON datatypes.JSON `gorm:"column:installment_metadata;type:jsonb" json:"installment_metadata,omitempty"`

	// Audit
	InstallmentCreatedAt time.Time      `gorm:"column:installment_created_at;type:timestamptz;not null;default:now();index" json:"installment_created_at"`
	InstallmentUpdatedAt time.Time      `gorm:"column:installment_updated_at;type:timestamptz;not null;default:now()" json:"installment_updated_at"`
	InstallmentDeletedAt gorm.DeletedAt `gorm:"column:installment_deleted_at;type:timestamptz;index" json:"-"`
}

func (InstallmentModel) TableName() string { return "installments" }

// Meta decodifica o JSONB de metadata para a forma canônica.
func (m *InstallmentModel) Meta() InstallmentMetadata {
	var meta InstallmentMetadata
	if len(m.InstallmentMetadataJSON) == 0 {
		return meta
	}
	_ = json.Unmarshal(m.InstallmentMetadataJSON, &meta)
	return meta
}

// SetMeta serializa a forma canônica de volta para o JSONB.
func (m *InstallmentModel) SetMeta(meta InstallmentMetadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	m.InstallmentMetadataJSON = datatypes.JSON(raw)
	return nil
}

// MetadataValue serializa metadata para uso em Updates(map).
func MetadataValue(meta InstallmentMetadata) (datatypes.JSON, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// HasPaymentMethod informa se a parcela tem ALGUMA forma de pagamento
// visível ao responsável (instruções manuais ou link do gateway).
// Usado pelo guard de publicação.
func (m *InstallmentModel) HasPaymentMethod() bool {
	meta := m.Meta()
	if strings.TrimSpace(meta.PixKey) != "" ||
		strings.TrimSpace(meta.BoletoCode) != "" ||
		strings.TrimSpace(meta.BoletoURL) != "" {
		return true
	}
	return m.InstallmentBillingURL != nil && strings.TrimSpace(*m.InstallmentBillingURL) != ""
}

// IsGatewayLinked informa se já existe cobrança correspondente no gateway.
func (m *InstallmentModel) IsGatewayLinked() bool {
	return m.InstallmentGatewayIntegrationID != nil && strings.TrimSpace(*m.InstallmentGatewayIntegrationID) != ""
}

func (m *InstallmentModel) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.InstallmentCreatedAt.IsZero() {
		m.InstallmentCreatedAt = now
	}
	m.InstallmentUpdatedAt = now
	return nil
}

func (m *InstallmentModel) BeforeUpdate(tx *gorm.DB) (err error) {
	m.InstallmentUpdatedAt = time.Now()
	return nil
}
