// file: internals/helpers/locals.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// chaves dos locals hidratados pelo middleware de auth
const (
	LocUserID       = "user_id"
	LocRole         = "role"
	LocEnrollmentID = "enrollment_id"
)

// GetUserIDFromToken retorna o user_id do token ou 401
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user_id inválido")
	}
	return id, nil
}

// GetEnrollmentIDFromToken retorna a matrícula ligada ao responsável logado
func GetEnrollmentIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocEnrollmentID).(string)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Nenhuma matrícula vinculada a este usuário")
	}
	return id, nil
}
