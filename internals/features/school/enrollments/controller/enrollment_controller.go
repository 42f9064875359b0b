package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "escolinha_backend/internals/features/school/enrollments/dto"
	model "escolinha_backend/internals/features/school/enrollments/model"
	helper "escolinha_backend/internals/helpers"
)

type EnrollmentController struct {
	DB *gorm.DB
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{DB: db}
}

/* ======================= CREATE ======================= */
// POST /api/a/enrollments
func (h *EnrollmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, tx.Error.Error())
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	student := model.StudentModel{
		StudentName:      strings.TrimSpace(req.StudentName),
		StudentCPF:       req.StudentCPF,
		StudentBirthDate: req.StudentBirthDate,
	}
	if err := tx.Create(&student).Error; err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao criar aluno")
	}

	enrollment := model.EnrollmentModel{
		EnrollmentStudentID: student.StudentID,
		EnrollmentStatus:    model.EnrollmentStatusActive,
	}
	if err := enrollment.SetDetails(req.Details); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusBadRequest, "details inválido")
	}
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao criar matrícula")
	}

	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	enrollment.Student = student
	return helper.JsonCreated(c, "Matrícula criada", dto.FromModel(enrollment))
}

/* ======================== GET BY ID ======================== */
// GET /api/a/enrollments/:id
func (h *EnrollmentController) GetByID(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	if idStr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "ID não pode ser vazio")
	}

	var row model.EnrollmentModel
	if err := h.DB.Preload("Student").
		Where("enrollment_id = ?", idStr).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Matrícula não encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", dto.FromModel(row))
}

/* ======================== LIST ======================== */
// GET /api/a/enrollments?status=&q=&page=&per_page=
func (h *EnrollmentController) List(c *fiber.Ctx) error {
	var q dto.ListEnrollmentQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query inválida")
	}
	paging := helper.ResolvePaging(c, 20, 100)

	base := h.DB.Model(&model.EnrollmentModel{}).
		Joins("JOIN students ON students.student_id = enrollments.enrollment_student_id")

	if q.Status != nil {
		base = base.Where("enrollment_status = ?", *q.Status)
	}
	if q.Q != nil && *q.Q != "" {
		like := fmt.Sprintf("%%%s%%", *q.Q)
		base = base.Where("students.student_name ILIKE ?", like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var list []model.EnrollmentModel
	if err := base.Preload("Student").
		Order("enrollment_created_at DESC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&list).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "OK", dto.FromModels(list),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ======================== UPDATE (partial) ======================== */
// PUT /api/a/enrollments/:id
func (h *EnrollmentController) Update(c *fiber.Ctx) error {
	idStr := strings.TrimSpace(c.Params("id"))
	if idStr == "" {
		return fiber.NewError(fiber.StatusBadRequest, "ID não pode ser vazio")
	}

	var req dto.UpdateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var curr model.EnrollmentModel
	if err := h.DB.Where("enrollment_id = ?", idStr).First(&curr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Matrícula não encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	patch := map[string]interface{}{}
	if req.EnrollmentStatus != nil {
		patch["enrollment_status"] = *req.EnrollmentStatus
	}
	if req.Details != nil {
		tmp := model.EnrollmentModel{}
		if err := tmp.SetDetails(*req.Details); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "details inválido")
		}
		patch["enrollment_details"] = tmp.EnrollmentDetails
	}
	if len(patch) == 0 {
		return helper.JsonOK(c, "Nenhuma alteração", dto.FromModel(curr))
	}

	if err := h.DB.Model(&model.EnrollmentModel{}).
		Where("enrollment_id = ?", idStr).
		Updates(patch).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao atualizar matrícula")
	}

	var updated model.EnrollmentModel
	if err := h.DB.Preload("Student").
		Where("enrollment_id = ?", idStr).
		First(&updated).Error; err != nil {
		return helper.JsonUpdated(c, "Matrícula atualizada", dto.FromModel(curr))
	}
	return helper.JsonUpdated(c, "Matrícula atualizada", dto.FromModel(updated))
}
