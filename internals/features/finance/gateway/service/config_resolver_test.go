package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGatewayConfig_PlainObject(t *testing.T) {
	raw := []byte(`{"provider":"asaas","environment":"production","api_key":"abc123","wallet_id":"w1"}`)

	cfg, err := ParseGatewayConfig(raw)
	assert.NoError(t, err)
	assert.Equal(t, ProviderAsaas, cfg.Provider)
	assert.Equal(t, EnvironmentProduction, cfg.Environment)
	assert.Equal(t, "abc123", cfg.APIKey)
	assert.Equal(t, "w1", cfg.WalletID)
}

func TestParseGatewayConfig_DoubleEncodedString(t *testing.T) {
	// valor gravado como string JSON (escapado) em vez de objeto nativo
	raw := []byte(`"{\"provider\":\"asaas\",\"environment\":\"sandbox\",\"api_key\":\"abc123\"}"`)

	cfg, err := ParseGatewayConfig(raw)
	assert.NoError(t, err)
	assert.Equal(t, ProviderAsaas, cfg.Provider)
	assert.Equal(t, EnvironmentSandbox, cfg.Environment)
	assert.Equal(t, "abc123", cfg.APIKey)
}

func TestParseGatewayConfig_Empty(t *testing.T) {
	_, err := ParseGatewayConfig(nil)
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)

	_, err = ParseGatewayConfig([]byte(`isso não é json`))
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestParseGatewayConfig_Defaults(t *testing.T) {
	cfg, err := ParseGatewayConfig([]byte(`{"api_key":"abc"}`))
	assert.NoError(t, err)
	assert.Equal(t, ProviderManual, cfg.Provider)
	assert.Equal(t, EnvironmentSandbox, cfg.Environment)
}

func TestValidateForAsaas(t *testing.T) {
	assert.ErrorIs(t,
		GatewayConfig{Provider: ProviderManual}.ValidateForAsaas(),
		ErrGatewayWrongProvider)

	assert.ErrorIs(t,
		GatewayConfig{Provider: ProviderAsaas, APIKey: "  "}.ValidateForAsaas(),
		ErrGatewayNotConfigured)

	assert.NoError(t,
		GatewayConfig{Provider: ProviderAsaas, APIKey: "abc"}.ValidateForAsaas())
}
