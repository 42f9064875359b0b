// file: internals/features/notifications/service/dispatch.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	notifModel "escolinha_backend/internals/features/notifications/model"
	enrollModel "escolinha_backend/internals/features/school/enrollments/model"
	userModel "escolinha_backend/internals/features/users/model"
)

var ErrNotificationNotFound = errors.New("notificação não encontrada")

type DispatchOutcome string

const (
	DispatchOutcomeDisabled DispatchOutcome = "disabled"
	DispatchOutcomeSent     DispatchOutcome = "sent"
	DispatchOutcomeFailed   DispatchOutcome = "failed"
)

type DispatchResult struct {
	Outcome DispatchOutcome `json:"outcome"`
	Phone   string          `json:"phone,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ChannelChecker responde se o canal está habilitado para o tipo da
// notificação. Canal sem linha na tabela conta como habilitado.
type ChannelChecker interface {
	ChannelEnabled(ctx context.Context, notifType string) (bool, error)
}

/* ==============================================
   Implementações GORM dos lookups
============================================== */

type GormChannelChecker struct{ DB *gorm.DB }

func NewGormChannelChecker(db *gorm.DB) *GormChannelChecker { return &GormChannelChecker{DB: db} }

func (g *GormChannelChecker) ChannelEnabled(ctx context.Context, notifType string) (bool, error) {
	var row notifModel.ChannelSettingModel
	err := g.DB.WithContext(ctx).
		Where("channel_setting_type = ?", notifType).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return row.ChannelSettingOn, nil
}

// gormPhoneLookups resolve telefone via banco para um destinatário.
type gormPhoneLookups struct {
	db     *gorm.DB
	userID uuid.UUID
	data   notifModel.NotificationData
}

func (g *gormPhoneLookups) UserPhone(ctx context.Context) (string, error) {
	var u userModel.UserModel
	if err := g.db.WithContext(ctx).First(&u, "user_id = ?", g.userID).Error; err != nil {
		return "", err
	}
	if u.UserPhone == nil {
		return "", nil
	}
	return *u.UserPhone, nil
}

func (g *gormPhoneLookups) ResponsiblePhone(ctx context.Context) (string, error) {
	enrollmentID := g.data.EnrollmentID
	if enrollmentID == "" {
		// guardian tem matrícula vinculada no perfil
		var u userModel.UserModel
		if err := g.db.WithContext(ctx).First(&u, "user_id = ?", g.userID).Error; err != nil {
			return "", err
		}
		if u.UserEnrollmentID == nil {
			return "", nil
		}
		enrollmentID = u.UserEnrollmentID.String()
	}

	var enr enrollModel.EnrollmentModel
	if err := g.db.WithContext(ctx).First(&enr, "enrollment_id = ?", enrollmentID).Error; err != nil {
		return "", err
	}
	d := enr.Details()
	if d.FinancialResponsible != nil && d.FinancialResponsible.Phone != "" {
		return d.FinancialResponsible.Phone, nil
	}
	if d.Parent != nil {
		return d.Parent.Phone, nil
	}
	return "", nil
}

/* ==============================================
   DispatchService - envia e registra o resultado
============================================== */

type DispatchService struct {
	DB      *gorm.DB
	Channel ChannelChecker
	Sender  WhatsappSender
}

func NewDispatchService(db *gorm.DB, sender WhatsappSender) *DispatchService {
	return &DispatchService{DB: db, Channel: NewGormChannelChecker(db), Sender: sender}
}

// Dispatch carrega a notificação, checa o canal, resolve o telefone e envia.
// O resultado (sent/failed + erro) fica gravado na própria linha.
func (s *DispatchService) Dispatch(ctx context.Context, notificationID uuid.UUID) (DispatchResult, error) {
	var n notifModel.NotificationModel
	if err := s.DB.WithContext(ctx).First(&n, "notification_id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DispatchResult{}, ErrNotificationNotFound
		}
		return DispatchResult{}, err
	}

	enabled, err := s.Channel.ChannelEnabled(ctx, n.NotificationType)
	if err != nil {
		return DispatchResult{}, err
	}
	if !enabled {
		return DispatchResult{Outcome: DispatchOutcomeDisabled}, nil
	}

	data := n.Data()
	lookups := &gormPhoneLookups{db: s.DB, userID: n.NotificationUserID, data: data}
	phone, err := ResolvePhone(ctx, data, lookups)
	if err != nil {
		return s.record(ctx, &n, DispatchResult{Outcome: DispatchOutcomeFailed, Error: err.Error()})
	}

	if err := s.Sender.SendMessage(ctx, phone, n.NotificationMessage); err != nil {
		return s.record(ctx, &n, DispatchResult{Outcome: DispatchOutcomeFailed, Phone: phone, Error: err.Error()})
	}
	return s.record(ctx, &n, DispatchResult{Outcome: DispatchOutcomeSent, Phone: phone})
}

func (s *DispatchService) record(ctx context.Context, n *notifModel.NotificationModel, res DispatchResult) (DispatchResult, error) {
	patch := map[string]interface{}{}
	switch res.Outcome {
	case DispatchOutcomeSent:
		now := time.Now()
		patch["notification_status"] = notifModel.NotificationStatusSent
		patch["notification_sent_at"] = &now
		patch["notification_error"] = nil
	case DispatchOutcomeFailed:
		patch["notification_status"] = notifModel.NotificationStatusFailed
		patch["notification_error"] = res.Error
	}
	if err := s.DB.WithContext(ctx).Model(n).Updates(patch).Error; err != nil {
		return res, err
	}
	return res, nil
}
