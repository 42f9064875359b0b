package controller

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"escolinha_backend/internals/features/finance/gateway/model"
	service "escolinha_backend/internals/features/finance/gateway/service"
	helper "escolinha_backend/internals/helpers"
)

type GatewayConfigController struct {
	DB     *gorm.DB
	Config service.ConfigProvider
}

func NewGatewayConfigController(db *gorm.DB) *GatewayConfigController {
	return &GatewayConfigController{DB: db, Config: service.NewDBConfigProvider(db)}
}

/* ======================== GET ======================== */
// GET /api/a/finance/gateway-config
// A chave de API nunca volta inteira para a tela.
func (h *GatewayConfigController) Get(c *fiber.Ctx) error {
	cfg, err := h.Config.GatewayConfig(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao ler configuração do gateway")
	}

	masked := ""
	if len(cfg.APIKey) > 4 {
		masked = "****" + cfg.APIKey[len(cfg.APIKey)-4:]
	} else if cfg.APIKey != "" {
		masked = "****"
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"provider":    cfg.Provider,
		"environment": cfg.Environment,
		"api_key":     masked,
		"wallet_id":   cfg.WalletID,
	})
}

type UpdateGatewayConfigRequest struct {
	Provider    string `json:"provider" validate:"required,oneof=manual asaas"`
	Environment string `json:"environment" validate:"required,oneof=sandbox production"`
	APIKey      string `json:"api_key" validate:"omitempty"`
	WalletID    string `json:"wallet_id" validate:"omitempty"`
}

/* ======================== PUT ======================== */
// PUT /api/a/finance/gateway-config
func (h *GatewayConfigController) Update(c *fiber.Ctx) error {
	var req UpdateGatewayConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	raw, err := json.Marshal(service.GatewayConfig{
		Provider:    req.Provider,
		Environment: req.Environment,
		APIKey:      req.APIKey,
		WalletID:    req.WalletID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	row := model.AppConfigModel{
		AppConfigKey:       model.GatewayConfigKey,
		AppConfigValue:     datatypes.JSON(raw),
		AppConfigUpdatedAt: time.Now(),
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"app_config_value", "app_config_updated_at"}),
	}).Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao gravar configuração do gateway")
	}

	return helper.JsonUpdated(c, "Configuração do gateway atualizada", fiber.Map{
		"provider":    req.Provider,
		"environment": req.Environment,
	})
}
