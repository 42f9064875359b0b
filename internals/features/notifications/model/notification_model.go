// file: internals/features/notifications/model/notification_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ==============================
   ENUM - status do disparo
============================== */

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

/* ==============================================
   DATA - payload tipado do JSONB
============================================== */

type NotificationData struct {
	StudentID     string `json:"student_id,omitempty"`
	EnrollmentID  string `json:"enrollment_id,omitempty"`
	InstallmentID string `json:"installment_id,omitempty"`
	// telefone de teste: quando presente, vence toda a cadeia de resolução
	OverridePhone string `json:"override_phone,omitempty"`
}

type NotificationModel struct {
	// PK
	NotificationID uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`

	// destinatário
	NotificationUserID uuid.UUID `gorm:"column:notification_user_id;type:uuid;not null;index" json:"notification_user_id"`

	NotificationType    string `gorm:"column:notification_type;type:varchar(60);not null;index" json:"notification_type"`
	NotificationTitle   string `gorm:"column:notification_title;type:varchar(160);not null" json:"notification_title"`
	NotificationMessage string `gorm:"column:notification_message;type:text;not null" json:"notification_message"`

	NotificationData datatypes.JSON `gorm:"column:notification_data;type:jsonb" json:"notification_data,omitempty"`

	// resultado do disparo
	NotificationStatus NotificationStatus `gorm:"column:notification_status;type:varchar(20);not null;default:'pending';index" json:"notification_status"`
	NotificationError  *string            `gorm:"column:notification_error;type:text" json:"notification_error,omitempty"`
	NotificationSentAt *time.Time         `gorm:"column:notification_sent_at;type:timestamptz" json:"notification_sent_at,omitempty"`

	// Audit
	NotificationCreatedAt time.Time `gorm:"column:notification_created_at;type:timestamptz;not null;default:now();index" json:"notification_created_at"`
}

func (NotificationModel) TableName() string { return "notifications" }

// Data decodifica o payload livre para a forma canônica.
func (m *NotificationModel) Data() NotificationData {
	var d NotificationData
	if len(m.NotificationData) == 0 {
		return d
	}
	_ = json.Unmarshal(m.NotificationData, &d)
	return d
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) (err error) {
	if m.NotificationCreatedAt.IsZero() {
		m.NotificationCreatedAt = time.Now()
	}
	return nil
}

/* ==============================================
   Canal - liga/desliga por tipo de notificação
============================================== */

type ChannelSettingModel struct {
	ChannelSettingID   uuid.UUID `gorm:"column:channel_setting_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"channel_setting_id"`
	ChannelSettingType string    `gorm:"column:channel_setting_type;type:varchar(60);not null;uniqueIndex" json:"channel_setting_type"`
	ChannelSettingOn   bool      `gorm:"column:channel_setting_enabled;not null;default:true" json:"channel_setting_enabled"`

	// públicos-alvo do canal (ex.: guardians, staff)
	ChannelSettingAudiences pq.StringArray `gorm:"column:channel_setting_audiences;type:text[]" json:"channel_setting_audiences,omitempty"`

	ChannelSettingUpdatedAt time.Time `gorm:"column:channel_setting_updated_at;type:timestamptz;not null;default:now()" json:"channel_setting_updated_at"`
}

func (ChannelSettingModel) TableName() string { return "notification_channel_settings" }
