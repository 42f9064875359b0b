// file: internals/features/finance/gateway/service/config_resolver.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"escolinha_backend/internals/features/finance/gateway/model"
)

var (
	ErrGatewayNotConfigured = errors.New("Gateway Asaas não configurado")
	ErrGatewayWrongProvider = errors.New("Provedor de pagamento não é Asaas")
)

const (
	ProviderManual = "manual"
	ProviderAsaas  = "asaas"

	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// GatewayConfig - forma canônica em memória da configuração do gateway.
type GatewayConfig struct {
	Provider    string `json:"provider"`
	Environment string `json:"environment"`
	APIKey      string `json:"api_key"`
	WalletID    string `json:"wallet_id,omitempty"`
}

func (g GatewayConfig) IsAsaas() bool { return g.Provider == ProviderAsaas }

// ValidateForAsaas garante que operações de gateway podem rodar.
func (g GatewayConfig) ValidateForAsaas() error {
	if !g.IsAsaas() {
		return ErrGatewayWrongProvider
	}
	if strings.TrimSpace(g.APIKey) == "" {
		return ErrGatewayNotConfigured
	}
	return nil
}

// ParseGatewayConfig normaliza o valor armazenado - que pode vir como objeto
// JSON nativo OU como string JSON duplamente codificada - para a forma
// canônica. A ambiguidade morre aqui e não se propaga.
func ParseGatewayConfig(raw []byte) (GatewayConfig, error) {
	var cfg GatewayConfig
	if len(raw) == 0 {
		return cfg, ErrGatewayNotConfigured
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		// valor salvo como string JSON: desserializa duas vezes
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return cfg, ErrGatewayNotConfigured
		}
		trimmed = inner
	}

	if err := json.Unmarshal([]byte(trimmed), &cfg); err != nil {
		return cfg, ErrGatewayNotConfigured
	}
	if strings.TrimSpace(cfg.Provider) == "" {
		cfg.Provider = ProviderManual
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = EnvironmentSandbox
	}
	return cfg, nil
}

// ConfigProvider - dependência injetada; testes substituem por config fixa.
type ConfigProvider interface {
	GatewayConfig(ctx context.Context) (GatewayConfig, error)
}

// DBConfigProvider lê a configuração do app_configs a cada operação.
type DBConfigProvider struct {
	DB *gorm.DB
}

func NewDBConfigProvider(db *gorm.DB) *DBConfigProvider {
	return &DBConfigProvider{DB: db}
}

func (p *DBConfigProvider) GatewayConfig(ctx context.Context) (GatewayConfig, error) {
	var row model.AppConfigModel
	if err := p.DB.WithContext(ctx).
		Where("app_config_key = ?", model.GatewayConfigKey).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GatewayConfig{Provider: ProviderManual, Environment: EnvironmentSandbox}, nil
		}
		return GatewayConfig{}, err
	}
	return ParseGatewayConfig(row.AppConfigValue)
}

// StaticConfigProvider - config fixa (testes e tooling).
type StaticConfigProvider struct {
	Config GatewayConfig
	Err    error
}

func (p StaticConfigProvider) GatewayConfig(ctx context.Context) (GatewayConfig, error) {
	return p.Config, p.Err
}
