// file: internals/features/school/enrollments/dto/enrollment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "escolinha_backend/internals/features/school/enrollments/model"
)

/* =============== REQUESTS =============== */

// Create - cria aluno + matrícula juntos
type CreateEnrollmentRequest struct {
	StudentName      string     `json:"student_name" validate:"required,min=3"`
	StudentCPF       *string    `json:"student_cpf" validate:"omitempty"`
	StudentBirthDate *time.Time `json:"student_birth_date" validate:"omitempty"`

	Details m.EnrollmentDetails `json:"details" validate:"omitempty"`
}

// Update (partial)
type UpdateEnrollmentRequest struct {
	EnrollmentStatus *string              `json:"enrollment_status" validate:"omitempty,oneof=active inactive cancelled"`
	Details          *m.EnrollmentDetails `json:"details" validate:"omitempty"`
}

// List / Query params
type ListEnrollmentQuery struct {
	Status *string `query:"status" validate:"omitempty,oneof=active inactive cancelled"`
	Q      *string `query:"q" validate:"omitempty"`
}

/* =============== RESPONSES =============== */

type EnrollmentResponse struct {
	EnrollmentID        uuid.UUID           `json:"enrollment_id"`
	EnrollmentStudentID uuid.UUID           `json:"enrollment_student_id"`
	StudentName         string              `json:"student_name,omitempty"`
	StudentCPF          *string             `json:"student_cpf,omitempty"`
	EnrollmentStatus    m.EnrollmentStatus  `json:"enrollment_status"`
	Details             m.EnrollmentDetails `json:"details"`
	EnrollmentCreatedAt time.Time           `json:"enrollment_created_at"`
}

/* =============== MAPPERS =============== */

func FromModel(x m.EnrollmentModel) EnrollmentResponse {
	return EnrollmentResponse{
		EnrollmentID:        x.EnrollmentID,
		EnrollmentStudentID: x.EnrollmentStudentID,
		StudentName:         x.Student.StudentName,
		StudentCPF:          x.Student.StudentCPF,
		EnrollmentStatus:    x.EnrollmentStatus,
		Details:             x.Details(),
		EnrollmentCreatedAt: x.EnrollmentCreatedAt,
	}
}

func FromModels(list []m.EnrollmentModel) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
