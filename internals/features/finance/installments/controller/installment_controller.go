package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "escolinha_backend/internals/features/finance/installments/dto"
	model "escolinha_backend/internals/features/finance/installments/model"
	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
	helper "escolinha_backend/internals/helpers"
)

type InstallmentController struct {
	DB     *gorm.DB
	Config gatewayService.ConfigProvider
}

func NewInstallmentController(db *gorm.DB, cfg gatewayService.ConfigProvider) *InstallmentController {
	return &InstallmentController{DB: db, Config: cfg}
}

func fetchInstallment(db *gorm.DB, id string) (*model.InstallmentModel, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	var row model.InstallmentModel
	if err := db.Preload("Enrollment").Preload("Enrollment.Student").
		Where("installment_id = ?", parsed).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Parcela não encontrada")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &row, nil
}

/* ======================= CREATE ======================= */
// POST /api/a/finance/installments
func (h *InstallmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateInstallmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	row := req.ToModel()
	if err := h.DB.Create(row).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao criar parcela")
	}

	created, err := fetchInstallment(h.DB, row.InstallmentID.String())
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Parcela criada", dto.FromModel(*created))
}

/* ======================== GET BY ID ======================== */
// GET /api/a/finance/installments/:id
// Devolve a parcela + resumo da config do gateway (a tela de detalhe decide
// quais ações exibir a partir do provider).
func (h *InstallmentController) GetByID(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	if idStr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "ID não pode ser vazio")
	}

	row, err := fetchInstallment(h.DB, idStr)
	if err != nil {
		return err
	}

	cfg, err := h.Config.GatewayConfig(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao ler configuração do gateway")
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"installment": dto.FromModel(*row),
		"gateway": fiber.Map{
			"provider":    cfg.Provider,
			"environment": cfg.Environment,
		},
	})
}

/* ======================== LIST ======================== */
// GET /api/a/finance/installments?enrollment_id=&status=&published=&due_from=&due_to=&page=&per_page=
func (h *InstallmentController) List(c *fiber.Ctx) error {
	var q dto.ListInstallmentQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query inválida")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	base := h.DB.Model(&model.InstallmentModel{})
	if q.EnrollmentID != nil {
		base = base.Where("installment_enrollment_id = ?", *q.EnrollmentID)
	}
	if q.Status != nil {
		base = base.Where("installment_status = ?", *q.Status)
	}
	if q.Published != nil {
		base = base.Where("installment_is_published = ?", *q.Published)
	}
	if q.DueFrom != nil {
		base = base.Where("installment_due_date >= ?", *q.DueFrom)
	}
	if q.DueTo != nil {
		base = base.Where("installment_due_date <= ?", *q.DueTo)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var list []model.InstallmentModel
	if err := base.Preload("Enrollment").Preload("Enrollment.Student").
		Order("installment_due_date ASC, installment_number ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "OK", dto.FromModels(list),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ======================== LIST (responsável) ======================== */
// GET /api/u/finance/installments
// O responsável só enxerga parcelas publicadas da própria matrícula.
func (h *InstallmentController) ListMine(c *fiber.Ctx) error {
	enrollmentID, err := helper.GetEnrollmentIDFromToken(c)
	if err != nil {
		return err
	}

	var list []model.InstallmentModel
	if err := h.DB.
		Where("installment_enrollment_id = ? AND installment_is_published = TRUE", enrollmentID).
		Order("installment_due_date ASC").
		Find(&list).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.FromModels(list))
}
