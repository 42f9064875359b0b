package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"escolinha_backend/internals/configs"
	"escolinha_backend/internals/features/users/model"
	helper "escolinha_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

/* ======================= LOGIN ======================= */
// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var user model.UserModel
	if err := ctrl.DB.
		Where("user_email = ? AND user_is_active = TRUE", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "E-mail ou senha incorretos")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "E-mail ou senha incorretos")
	}

	claims := jwt.MapClaims{
		"user_id": user.UserID.String(),
		"role":    string(user.UserRole),
		"exp":     time.Now().Add(12 * time.Hour).Unix(),
	}
	if user.UserEnrollmentID != nil {
		claims["enrollment_id"] = user.UserEnrollmentID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		log.Println("[ERROR] Falha ao assinar token:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao gerar token")
	}

	return helper.JsonOK(c, "Login realizado", fiber.Map{
		"access_token": signed,
		"user": fiber.Map{
			"user_id":   user.UserID,
			"user_name": user.UserName,
			"user_role": user.UserRole,
		},
	})
}

type CreateUserRequest struct {
	Name         string     `json:"name" validate:"required,min=3"`
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=6"`
	Role         string     `json:"role" validate:"required,oneof=admin staff guardian"`
	Phone        *string    `json:"phone" validate:"omitempty"`
	EnrollmentID *uuid.UUID `json:"enrollment_id" validate:"omitempty"`
}

/* ======================= CREATE USER ======================= */
// POST /api/a/users
func (ctrl *AuthController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload inválido")
	}
	if err := validator.New().Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao gerar hash de senha")
	}

	user := model.UserModel{
		UserName:         strings.TrimSpace(req.Name),
		UserEmail:        strings.ToLower(strings.TrimSpace(req.Email)),
		UserPasswordHash: string(hash),
		UserRole:         model.UserRole(req.Role),
		UserPhone:        req.Phone,
		UserEnrollmentID: req.EnrollmentID,
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return fiber.NewError(fiber.StatusConflict, "E-mail já cadastrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Falha ao criar usuário")
	}

	return helper.JsonCreated(c, "Usuário criado", user)
}
