package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "escolinha_backend/internals/features/finance/installments/model"
)

func TestComputeNegotiation_FirstDiscountFixed(t *testing.T) {
	// parcela de 500 sem negociação anterior; desconto fixo de 50
	res, err := ComputeNegotiation(500, nil, NegotiationInput{
		Type:  model.NegotiationTypeDiscount,
		Mode:  NegotiationModeFixed,
		Value: 50,
	})
	assert.NoError(t, err)
	assert.Equal(t, 500.0, res.OriginalValue)
	assert.Equal(t, 50.0, res.DiscountValue)
	assert.Equal(t, 0.0, res.SurchargeValue)
	assert.Equal(t, 450.0, res.FinalValue)
}

func TestComputeNegotiation_RenegotiateUsesOriginal(t *testing.T) {
	// parcela já negociada (atual 450, original 500); novo desconto de 10%
	// deve incidir sobre os 500, não sobre os 450
	original := 500.0
	res, err := ComputeNegotiation(450, &original, NegotiationInput{
		Type:  model.NegotiationTypeDiscount,
		Mode:  NegotiationModePercent,
		Value: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, 500.0, res.OriginalValue)
	assert.Equal(t, 50.0, res.DiscountValue)
	assert.Equal(t, 450.0, res.FinalValue)
}

func TestComputeNegotiation_SurchargeFixed(t *testing.T) {
	res, err := ComputeNegotiation(300, nil, NegotiationInput{
		Type:  model.NegotiationTypeSurcharge,
		Mode:  NegotiationModeFixed,
		Value: 15.5,
	})
	assert.NoError(t, err)
	assert.Equal(t, 300.0, res.OriginalValue)
	assert.Equal(t, 15.5, res.SurchargeValue)
	assert.Equal(t, 0.0, res.DiscountValue)
	assert.Equal(t, 315.5, res.FinalValue)
}

func TestComputeNegotiation_PercentRounding(t *testing.T) {
	// 333.33 * 7% = 23.3331 → arredonda para 23.33
	res, err := ComputeNegotiation(333.33, nil, NegotiationInput{
		Type:  model.NegotiationTypeDiscount,
		Mode:  NegotiationModePercent,
		Value: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, 23.33, res.DiscountValue)
	assert.Equal(t, 310.0, res.FinalValue)
}

func TestComputeNegotiation_DiscountBiggerThanOriginal(t *testing.T) {
	_, err := ComputeNegotiation(100, nil, NegotiationInput{
		Type:  model.NegotiationTypeDiscount,
		Mode:  NegotiationModeFixed,
		Value: 150,
	})
	assert.ErrorIs(t, err, ErrNegativeFinalValue)
}

func TestComputeNegotiation_InvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		in   NegotiationInput
	}{
		{"valor zero", NegotiationInput{Type: model.NegotiationTypeDiscount, Mode: NegotiationModeFixed, Value: 0}},
		{"valor negativo", NegotiationInput{Type: model.NegotiationTypeDiscount, Mode: NegotiationModeFixed, Value: -10}},
		{"modo desconhecido", NegotiationInput{Type: model.NegotiationTypeDiscount, Mode: "banana", Value: 10}},
		{"tipo desconhecido", NegotiationInput{Type: "abatimento", Mode: NegotiationModeFixed, Value: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeNegotiation(500, nil, tc.in)
			assert.ErrorIs(t, err, ErrInvalidNegotiation)
		})
	}
}
