// file: internals/features/users/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==============================
   ENUM - papel do usuário
============================== */

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleStaff    UserRole = "staff"
	UserRoleGuardian UserRole = "guardian"
)

type UserModel struct {
	// PK
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`

	UserName         string   `gorm:"column:user_name;type:varchar(120);not null" json:"user_name"`
	UserEmail        string   `gorm:"column:user_email;type:varchar(160);not null;uniqueIndex" json:"user_email"`
	UserPasswordHash string   `gorm:"column:user_password_hash;type:text;not null" json:"-"`
	UserRole         UserRole `gorm:"column:user_role;type:varchar(20);not null;default:'guardian';index" json:"user_role"`

	// telefone do perfil (fallback do disparo de WhatsApp)
	UserPhone *string `gorm:"column:user_phone;type:varchar(20)" json:"user_phone,omitempty"`

	// matrícula vinculada (apenas guardian)
	UserEnrollmentID *uuid.UUID `gorm:"column:user_enrollment_id;type:uuid;index" json:"user_enrollment_id,omitempty"`

	UserIsActive bool `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	// Audit
	UserCreatedAt time.Time      `gorm:"column:user_created_at;type:timestamptz;not null;default:now()" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;type:timestamptz;not null;default:now()" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;type:timestamptz;index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.UserCreatedAt.IsZero() {
		m.UserCreatedAt = now
	}
	m.UserUpdatedAt = now
	return nil
}

func (m *UserModel) BeforeUpdate(tx *gorm.DB) (err error) {
	m.UserUpdatedAt = time.Now()
	return nil
}
