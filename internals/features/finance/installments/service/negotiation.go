// file: internals/features/finance/installments/service/negotiation.go
package service

import (
	"errors"
	"math"

	model "escolinha_backend/internals/features/finance/installments/model"
)

type NegotiationMode string

const (
	NegotiationModeFixed   NegotiationMode = "fixed"
	NegotiationModePercent NegotiationMode = "percent"
)

type NegotiationInput struct {
	Type  model.NegotiationType `json:"type" validate:"required,oneof=discount surcharge"`
	Mode  NegotiationMode       `json:"mode" validate:"required,oneof=fixed percent"`
	Value float64               `json:"value" validate:"required,gt=0"`
	Notes string                `json:"notes" validate:"omitempty"`
}

type NegotiationResult struct {
	OriginalValue  float64
	DiscountValue  float64
	SurchargeValue float64
	FinalValue     float64
}

var (
	ErrInvalidNegotiation = errors.New("negociação inválida")
	ErrNegativeFinalValue = errors.New("desconto maior que o valor original da parcela")
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeNegotiation aplica UM ajuste (desconto OU acréscimo) sempre sobre o
// valor original da parcela - nunca sobre um valor já negociado. Quando a
// parcela ainda não foi negociada, o valor atual vira o original.
// Renegociar substitui a negociação anterior, não acumula.
func ComputeNegotiation(currentValue float64, originalValue *float64, in NegotiationInput) (NegotiationResult, error) {
	base := currentValue
	if originalValue != nil {
		base = *originalValue
	}

	if in.Value <= 0 {
		return NegotiationResult{}, ErrInvalidNegotiation
	}

	var adjustment float64
	switch in.Mode {
	case NegotiationModeFixed:
		adjustment = round2(in.Value)
	case NegotiationModePercent:
		adjustment = round2(base * in.Value / 100)
	default:
		return NegotiationResult{}, ErrInvalidNegotiation
	}

	res := NegotiationResult{OriginalValue: base}
	switch in.Type {
	case model.NegotiationTypeDiscount:
		res.DiscountValue = adjustment
		res.FinalValue = round2(base - adjustment)
		if res.FinalValue < 0 {
			return NegotiationResult{}, ErrNegativeFinalValue
		}
	case model.NegotiationTypeSurcharge:
		res.SurchargeValue = adjustment
		res.FinalValue = round2(base + adjustment)
	default:
		return NegotiationResult{}, ErrInvalidNegotiation
	}

	return res, nil
}
