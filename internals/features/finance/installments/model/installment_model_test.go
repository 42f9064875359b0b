package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPaymentMethod(t *testing.T) {
	var m InstallmentModel
	assert.False(t, m.HasPaymentMethod())

	assert.NoError(t, m.SetMeta(InstallmentMetadata{PixKey: "chave@pix"}))
	assert.True(t, m.HasPaymentMethod())

	// metadata vazio mas com link do gateway também conta
	var linked InstallmentModel
	url := "https://sandbox.asaas.com/i/pay_1"
	linked.InstallmentBillingURL = &url
	assert.True(t, linked.HasPaymentMethod())

	// espaços não contam como forma de pagamento
	var blank InstallmentModel
	assert.NoError(t, blank.SetMeta(InstallmentMetadata{BoletoCode: "   "}))
	assert.False(t, blank.HasPaymentMethod())
}

func TestIsGatewayLinked(t *testing.T) {
	var m InstallmentModel
	assert.False(t, m.IsGatewayLinked())

	empty := "  "
	m.InstallmentGatewayIntegrationID = &empty
	assert.False(t, m.IsGatewayLinked())

	id := "pay_1"
	m.InstallmentGatewayIntegrationID = &id
	assert.True(t, m.IsGatewayLinked())
}

func TestMetaSurvivesRoundTrip(t *testing.T) {
	var m InstallmentModel
	in := InstallmentMetadata{
		PixKey:     "chave@pix",
		BoletoCode: "23790.12345 67890.123456",
		ManualObs:  "pagar na secretaria",
	}
	assert.NoError(t, m.SetMeta(in))
	assert.Equal(t, in, m.Meta())
}
