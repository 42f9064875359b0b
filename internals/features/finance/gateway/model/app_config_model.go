// file: internals/features/finance/gateway/model/app_config_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// AppConfigModel - registros de configuração key/value (valor em JSONB).
// A configuração do gateway financeiro vive na chave finance_gateway_config.
type AppConfigModel struct {
	AppConfigKey       string         `gorm:"column:app_config_key;type:varchar(80);primaryKey" json:"app_config_key"`
	AppConfigValue     datatypes.JSON `gorm:"column:app_config_value;type:jsonb" json:"app_config_value"`
	AppConfigUpdatedAt time.Time      `gorm:"column:app_config_updated_at;type:timestamptz;not null;default:now()" json:"app_config_updated_at"`
}

func (AppConfigModel) TableName() string { return "app_configs" }

const GatewayConfigKey = "finance_gateway_config"
