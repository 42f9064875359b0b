package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	model "escolinha_backend/internals/features/finance/installments/model"
)

func TestNegotiationPatch_WritesNotes(t *testing.T) {
	now := time.Now()
	res := NegotiationResult{OriginalValue: 500, DiscountValue: 50, FinalValue: 450}
	in := NegotiationInput{
		Type:  model.NegotiationTypeDiscount,
		Mode:  NegotiationModeFixed,
		Value: 50,
		Notes: "acordo com o responsável",
	}

	patch := negotiationPatch(res, in, now)
	assert.Equal(t, 450.0, patch["installment_value"])
	assert.Equal(t, 500.0, patch["installment_original_value"])
	assert.Equal(t, "discount", patch["installment_negotiation_type"])
	assert.Equal(t, "acordo com o responsável", patch["installment_negotiation_notes"])
	assert.Equal(t, now, patch["installment_negotiation_date"])
}

func TestNegotiationPatch_EmptyNotesClearPrevious(t *testing.T) {
	// renegociar sem observação apaga a observação da rodada anterior
	res := NegotiationResult{OriginalValue: 500, SurchargeValue: 20, FinalValue: 520}
	in := NegotiationInput{
		Type:  model.NegotiationTypeSurcharge,
		Mode:  NegotiationModeFixed,
		Value: 20,
	}

	patch := negotiationPatch(res, in, time.Now())
	assert.Contains(t, patch, "installment_negotiation_notes")
	assert.Nil(t, patch["installment_negotiation_notes"])
}
