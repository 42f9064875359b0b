package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "escolinha_backend/internals/features/notifications/dto"
	model "escolinha_backend/internals/features/notifications/model"
	service "escolinha_backend/internals/features/notifications/service"
	helper "escolinha_backend/internals/helpers"
)

type NotificationController struct {
	DB       *gorm.DB
	Dispatch *service.DispatchService
}

func NewNotificationController(db *gorm.DB, dispatch *service.DispatchService) *NotificationController {
	return &NotificationController{DB: db, Dispatch: dispatch}
}

/* ======================= CREATE ======================= */
// POST /api/a/notifications
func (h *NotificationController) Create(c *fiber.Ctx) error {
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	row, err := req.ToModel()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Create(row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao criar notificação")
	}

	return helper.JsonCreated(c, "Notificação criada", dto.FromModel(row))
}

/* ======================== LIST ======================== */
// GET /api/a/notifications?user_id=&type=&status=&page=&per_page=
func (h *NotificationController) List(c *fiber.Ctx) error {
	var q dto.ListNotificationQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query inválida")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	base := h.DB.Model(&model.NotificationModel{})
	if q.UserID != "" {
		base = base.Where("notification_user_id = ?", q.UserID)
	}
	if q.Type != "" {
		base = base.Where("notification_type = ?", q.Type)
	}
	if q.Status != "" {
		base = base.Where("notification_status = ?", q.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var list []model.NotificationModel
	if err := base.
		Order("notification_created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "OK", dto.FromModels(list),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ======================== DISPATCH ======================== */
// POST /internal/notifications/:id/dispatch
// Canal desabilitado não é erro: devolve 200 com outcome=disabled.
func (h *NotificationController) DispatchOne(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	id, err := uuid.Parse(idStr)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}

	res, err := h.Dispatch.Dispatch(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Notificação não encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	msg := "Notificação enviada"
	switch res.Outcome {
	case service.DispatchOutcomeDisabled:
		msg = "Canal desabilitado para este tipo"
	case service.DispatchOutcomeFailed:
		msg = "Falha no envio"
	}
	return helper.JsonOK(c, msg, res)
}

/* ======================== CANAL ======================== */
// PUT /api/a/notifications/channel-settings
func (h *NotificationController) UpdateChannelSetting(c *fiber.Ctx) error {
	var req dto.UpdateChannelSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	row := model.ChannelSettingModel{
		ChannelSettingType:      req.Type,
		ChannelSettingOn:        req.Enabled,
		ChannelSettingAudiences: req.Audiences,
		ChannelSettingUpdatedAt: time.Now(),
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_setting_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel_setting_enabled", "channel_setting_audiences", "channel_setting_updated_at"}),
	}).Create(&row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao gravar configuração do canal")
	}

	return helper.JsonUpdated(c, "Canal atualizado", fiber.Map{
		"type":    req.Type,
		"enabled": req.Enabled,
	})
}
