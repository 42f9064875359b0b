// file: internals/features/finance/installments/service/manage_payment.go
package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	model "escolinha_backend/internals/features/finance/installments/model"
	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
)

// ApplyNegotiation calcula e persiste uma negociação (desconto/acréscimo).
// Quando a parcela já tem cobrança no gateway, o novo valor é empurrado
// primeiro para lá - gateway e banco não podem divergir. O update local é um
// único UPDATE multi-campo.
func ApplyNegotiation(
	ctx context.Context,
	db *gorm.DB,
	gw gatewayService.AsaasAPI, // nil quando provider=manual
	inst *model.InstallmentModel,
	in NegotiationInput,
) (NegotiationResult, error) {
	res, err := ComputeNegotiation(inst.InstallmentValue, inst.InstallmentOriginalValue, in)
	if err != nil {
		return NegotiationResult{}, err
	}

	if gw != nil && inst.IsGatewayLinked() {
		if err := gw.UpdateChargeValue(ctx, *inst.InstallmentGatewayIntegrationID, res.FinalValue); err != nil {
			return NegotiationResult{}, fmt.Errorf("atualização de valor no gateway: %w", err)
		}
	}

	if err := db.WithContext(ctx).
		Model(&model.InstallmentModel{}).
		Where("installment_id = ?", inst.InstallmentID).
		Updates(negotiationPatch(res, in, time.Now())).Error; err != nil {
		return NegotiationResult{}, err
	}
	return res, nil
}

// negotiationPatch monta o UPDATE multi-campo de uma negociação. Renegociar
// substitui a negociação anterior por inteiro: observação vazia limpa a que
// existia, nada sobrevive da rodada anterior.
func negotiationPatch(res NegotiationResult, in NegotiationInput, now time.Time) map[string]interface{} {
	patch := map[string]interface{}{
		"installment_value":             res.FinalValue,
		"installment_original_value":    res.OriginalValue, // capturado uma vez; renegociar reescreve o mesmo valor
		"installment_discount_value":    res.DiscountValue,
		"installment_surcharge_value":   res.SurchargeValue,
		"installment_negotiation_type":  string(in.Type),
		"installment_negotiation_notes": nil,
		"installment_negotiation_date":  now,
		"installment_updated_at":        now,
	}
	if in.Notes != "" {
		patch["installment_negotiation_notes"] = in.Notes
	}
	return patch
}

// CancelCharge cancela a parcela. Se há cobrança no gateway, o cancelamento
// é roteado por lá antes do status local mudar.
func CancelCharge(
	ctx context.Context,
	db *gorm.DB,
	gw gatewayService.AsaasAPI, // nil quando provider=manual
	inst *model.InstallmentModel,
) error {
	if gw != nil && inst.IsGatewayLinked() {
		if err := gw.DeleteCharge(ctx, *inst.InstallmentGatewayIntegrationID); err != nil {
			return fmt.Errorf("cancelamento no gateway: %w", err)
		}
	}

	return db.WithContext(ctx).
		Model(&model.InstallmentModel{}).
		Where("installment_id = ?", inst.InstallmentID).
		Updates(map[string]interface{}{
			"installment_status":       model.InstallmentStatusCancelled,
			"installment_is_published": false,
			"installment_updated_at":   time.Now(),
		}).Error
}
