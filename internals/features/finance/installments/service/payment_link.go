// file: internals/features/finance/installments/service/payment_link.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "escolinha_backend/internals/features/finance/installments/model"
	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
	enrollmentModel "escolinha_backend/internals/features/school/enrollments/model"
)

/* ==============================
   Resultado do lote
============================== */

type BatchDetail struct {
	ID      string `json:"id"`
	Status  string `json:"status"` // success | error
	AsaasID string `json:"asaas_id,omitempty"`
	Message string `json:"message,omitempty"`
}

type BatchResult struct {
	Processed int           `json:"processed"`
	Details   []BatchDetail `json:"details"`
}

// ChargeItem - dados planos de uma parcela prontos para virar cobrança.
type ChargeItem struct {
	InstallmentID     uuid.UUID
	InstallmentNumber int
	Value             float64
	DueDate           time.Time
	StudentName       string
	StudentCPF        *string
	Details           enrollmentModel.EnrollmentDetails
}

// ChargeOutcome - campos a persistir após a cobrança criada no gateway.
type ChargeOutcome struct {
	GatewayID  string
	BillingURL string
}

// GenerateCharge resolve o pagador, garante o cliente no gateway e cria a
// cobrança de UMA parcela. Não toca no banco.
func GenerateCharge(ctx context.Context, gw gatewayService.AsaasAPI, item ChargeItem) (ChargeOutcome, error) {
	payer, err := ResolvePayer(item.Details, item.StudentName, item.StudentCPF)
	if err != nil {
		return ChargeOutcome{}, err
	}

	customer, err := gw.FindCustomerByCPF(ctx, payer.CPF)
	if err != nil {
		return ChargeOutcome{}, fmt.Errorf("consulta de cliente no gateway: %w", err)
	}
	if customer == nil {
		customer, err = gw.CreateCustomer(ctx, payer.Name, payer.CPF, payer.Email)
		if err != nil {
			return ChargeOutcome{}, fmt.Errorf("criação de cliente no gateway: %w", err)
		}
	}

	charge, err := gw.CreateCharge(ctx, gatewayService.CreateChargeRequest{
		CustomerID:        customer.ID,
		Value:             item.Value,
		DueDate:           item.DueDate,
		Description:       fmt.Sprintf("Parcela %d - %s", item.InstallmentNumber, item.StudentName),
		ExternalReference: item.InstallmentID.String(),
	})
	if err != nil {
		return ChargeOutcome{}, fmt.Errorf("criação de cobrança no gateway: %w", err)
	}

	return ChargeOutcome{GatewayID: charge.ID, BillingURL: charge.InvoiceURL}, nil
}

// processBatch roda a geração item a item, isolando falhas: um item que
// falhar (sem CPF, gateway rejeitou) não impede os demais. len(Details)
// sempre igual ao número de itens de entrada.
func processBatch(
	ctx context.Context,
	gw gatewayService.AsaasAPI,
	items []ChargeItem,
	persist func(ctx context.Context, id uuid.UUID, out ChargeOutcome) error,
) BatchResult {
	result := BatchResult{Details: make([]BatchDetail, 0, len(items))}

	for _, item := range items {
		result.Processed++

		outcome, err := GenerateCharge(ctx, gw, item)
		if err != nil {
			log.Printf("[WARN] Geração de cobrança falhou para parcela %s: %v", item.InstallmentID, err)
			result.Details = append(result.Details, BatchDetail{
				ID:      item.InstallmentID.String(),
				Status:  "error",
				Message: err.Error(),
			})
			continue
		}

		if err := persist(ctx, item.InstallmentID, outcome); err != nil {
			log.Printf("[ERROR] Falha ao gravar cobrança da parcela %s: %v", item.InstallmentID, err)
			result.Details = append(result.Details, BatchDetail{
				ID:      item.InstallmentID.String(),
				Status:  "error",
				Message: "cobrança criada no gateway, mas falhou ao gravar: " + err.Error(),
			})
			continue
		}

		result.Details = append(result.Details, BatchDetail{
			ID:      item.InstallmentID.String(),
			Status:  "success",
			AsaasID: outcome.GatewayID,
		})
	}

	return result
}

/* ==============================
   Serviço com persistência GORM
============================== */

type PaymentLinkService struct {
	DB      *gorm.DB
	Gateway gatewayService.AsaasAPI
}

func NewPaymentLinkService(db *gorm.DB, gw gatewayService.AsaasAPI) *PaymentLinkService {
	return &PaymentLinkService{DB: db, Gateway: gw}
}

// GenerateBatch carrega as parcelas, gera as cobranças e grava os vínculos.
// Cada parcela é commitada de forma independente (sem transação de lote).
func (s *PaymentLinkService) GenerateBatch(ctx context.Context, ids []uuid.UUID) BatchResult {
	var rows []model.InstallmentModel
	if err := s.DB.WithContext(ctx).
		Preload("Enrollment").
		Preload("Enrollment.Student").
		Where("installment_id IN ?", ids).
		Find(&rows).Error; err != nil {
		// falha de leitura derruba o lote inteiro em erro por item
		result := BatchResult{Details: make([]BatchDetail, 0, len(ids))}
		for _, id := range ids {
			result.Processed++
			result.Details = append(result.Details, BatchDetail{
				ID: id.String(), Status: "error", Message: err.Error(),
			})
		}
		return result
	}

	byID := make(map[uuid.UUID]model.InstallmentModel, len(rows))
	for _, r := range rows {
		byID[r.InstallmentID] = r
	}

	// mantém a ordem do request e acusa ids inexistentes/não pendentes
	items := make([]ChargeItem, 0, len(ids))
	result := BatchResult{Details: make([]BatchDetail, 0, len(ids))}
	skipped := map[uuid.UUID]bool{}
	for _, id := range ids {
		inst, ok := byID[id]
		if !ok {
			result.Processed++
			result.Details = append(result.Details, BatchDetail{
				ID: id.String(), Status: "error", Message: "parcela não encontrada",
			})
			skipped[id] = true
			continue
		}
		if inst.InstallmentStatus != model.InstallmentStatusPending {
			result.Processed++
			result.Details = append(result.Details, BatchDetail{
				ID: id.String(), Status: "error", Message: "parcela não está pendente",
			})
			skipped[id] = true
			continue
		}
		items = append(items, ChargeItem{
			InstallmentID:     inst.InstallmentID,
			InstallmentNumber: inst.InstallmentNumber,
			Value:             inst.InstallmentValue,
			DueDate:           inst.InstallmentDueDate,
			StudentName:       inst.Enrollment.Student.StudentName,
			StudentCPF:        inst.Enrollment.Student.StudentCPF,
			Details:           inst.Enrollment.Details(),
		})
	}

	generated := processBatch(ctx, s.Gateway, items, s.persistOutcome)

	// junta os detalhes na ordem original do request
	genByID := make(map[string]BatchDetail, len(generated.Details))
	for _, d := range generated.Details {
		genByID[d.ID] = d
	}
	merged := BatchResult{Processed: 0, Details: make([]BatchDetail, 0, len(ids))}
	preByID := make(map[string]BatchDetail, len(result.Details))
	for _, d := range result.Details {
		preByID[d.ID] = d
	}
	for _, id := range ids {
		merged.Processed++
		if skipped[id] {
			merged.Details = append(merged.Details, preByID[id.String()])
			continue
		}
		merged.Details = append(merged.Details, genByID[id.String()])
	}
	return merged
}

// persistOutcome grava o vínculo do gateway num único UPDATE atômico.
// Cobrança gerada fica publicada na hora - não existe rascunho para
// cobrança de gateway.
func (s *PaymentLinkService) persistOutcome(ctx context.Context, id uuid.UUID, out ChargeOutcome) error {
	return s.DB.WithContext(ctx).
		Model(&model.InstallmentModel{}).
		Where("installment_id = ?", id).
		Updates(map[string]interface{}{
			"installment_gateway_integration_id": out.GatewayID,
			"installment_billing_url":            out.BillingURL,
			"installment_payment_method":         "boleto",
			"installment_is_published":           true,
			"installment_updated_at":             time.Now(),
		}).Error
}
