// file: internals/features/school/enrollments/model/enrollment_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ==============================
   ENUM - status da matrícula
============================== */

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusInactive  EnrollmentStatus = "inactive"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

/* ==============================================
   DETAILS - sub-estrutura tipada do JSONB
   (campos podem estar ausentes; ponteiros = opcional)
============================================== */

type ResponsiblePerson struct {
	Name  string `json:"name,omitempty"`
	CPF   string `json:"cpf,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type EnrollmentDetails struct {
	Parent               *ResponsiblePerson `json:"parent,omitempty"`
	FinancialResponsible *ResponsiblePerson `json:"financial_responsible,omitempty"`
	CandidateName        string             `json:"candidate_name,omitempty"`
	ContactEmail         string             `json:"contact_email,omitempty"`
}

type EnrollmentModel struct {
	// PK
	EnrollmentID uuid.UUID `gorm:"column:enrollment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`

	// FK → students
	EnrollmentStudentID uuid.UUID    `gorm:"column:enrollment_student_id;type:uuid;not null;index" json:"enrollment_student_id"`
	Student             StudentModel `gorm:"foreignKey:EnrollmentStudentID;references:StudentID" json:"student,omitempty"`

	EnrollmentStatus EnrollmentStatus `gorm:"column:enrollment_status;type:varchar(20);not null;default:'active';index" json:"enrollment_status"`

	// JSONB livre com responsável/contatos; ler sempre via Details()
	EnrollmentDetails datatypes.JSON `gorm:"column:enrollment_details;type:jsonb" json:"enrollment_details,omitempty"`

	// Audit
	EnrollmentCreatedAt time.Time      `gorm:"column:enrollment_created_at;type:timestamptz;not null;default:now();index" json:"enrollment_created_at"`
	EnrollmentUpdatedAt time.Time      `gorm:"column:enrollment_updated_at;type:timestamptz;not null;default:now()" json:"enrollment_updated_at"`
	EnrollmentDeletedAt gorm.DeletedAt `gorm:"column:enrollment_deleted_at;type:timestamptz;index" json:"-"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

// Details decodifica o JSONB para a forma canônica.
// JSON ausente/corrompido vira struct zero (campos ausentes, nunca panic).
func (m *EnrollmentModel) Details() EnrollmentDetails {
	var d EnrollmentDetails
	if len(m.EnrollmentDetails) == 0 {
		return d
	}
	_ = json.Unmarshal(m.EnrollmentDetails, &d)
	return d
}

// SetDetails serializa a forma canônica de volta para o JSONB.
func (m *EnrollmentModel) SetDetails(d EnrollmentDetails) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.EnrollmentDetails = datatypes.JSON(raw)
	return nil
}

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.EnrollmentCreatedAt.IsZero() {
		m.EnrollmentCreatedAt = now
	}
	m.EnrollmentUpdatedAt = now
	return nil
}

func (m *EnrollmentModel) BeforeUpdate(tx *gorm.DB) (err error) {
	m.EnrollmentUpdatedAt = time.Now()
	return nil
}
