// file: internals/features/notifications/dto/notification_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "escolinha_backend/internals/features/notifications/model"
)

/* ===================== REQUESTS ===================== */

type CreateNotificationRequest struct {
	UserID  uuid.UUID               `json:"user_id" validate:"required"`
	Type    string                  `json:"type" validate:"required,max=60"`
	Title   string                  `json:"title" validate:"required,max=160"`
	Message string                  `json:"message" validate:"required"`
	Data    *model.NotificationData `json:"data,omitempty"`
}

func (r *CreateNotificationRequest) ToModel() (*model.NotificationModel, error) {
	m := &model.NotificationModel{
		NotificationUserID:  r.UserID,
		NotificationType:    r.Type,
		NotificationTitle:   r.Title,
		NotificationMessage: r.Message,
		NotificationStatus:  model.NotificationStatusPending,
	}
	if r.Data != nil {
		raw, err := json.Marshal(r.Data)
		if err != nil {
			return nil, err
		}
		m.NotificationData = datatypes.JSON(raw)
	}
	return m, nil
}

type ListNotificationQuery struct {
	UserID string `query:"user_id"`
	Type   string `query:"type"`
	Status string `query:"status"`
}

type UpdateChannelSettingRequest struct {
	Type      string   `json:"type" validate:"required,max=60"`
	Enabled   bool     `json:"enabled"`
	Audiences []string `json:"audiences,omitempty"`
}

/* ===================== RESPONSES ===================== */

type NotificationResponse struct {
	NotificationID string                   `json:"notification_id"`
	UserID         string                   `json:"user_id"`
	Type           string                   `json:"type"`
	Title          string                   `json:"title"`
	Message        string                   `json:"message"`
	Data           *model.NotificationData  `json:"data,omitempty"`
	Status         model.NotificationStatus `json:"status"`
	Error          *string                  `json:"error,omitempty"`
	SentAt         *time.Time               `json:"sent_at,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

func FromModel(m *model.NotificationModel) NotificationResponse {
	resp := NotificationResponse{
		NotificationID: m.NotificationID.String(),
		UserID:         m.NotificationUserID.String(),
		Type:           m.NotificationType,
		Title:          m.NotificationTitle,
		Message:        m.NotificationMessage,
		Status:         m.NotificationStatus,
		Error:          m.NotificationError,
		SentAt:         m.NotificationSentAt,
		CreatedAt:      m.NotificationCreatedAt,
	}
	if len(m.NotificationData) > 0 {
		d := m.Data()
		resp.Data = &d
	}
	return resp
}

func FromModels(rows []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
