package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	model "escolinha_backend/internals/features/notifications/model"
)

type fakeLookups struct {
	userPhone        string
	userErr          error
	responsiblePhone string
	responsibleErr   error
}

func (f *fakeLookups) UserPhone(ctx context.Context) (string, error) {
	return f.userPhone, f.userErr
}

func (f *fakeLookups) ResponsiblePhone(ctx context.Context) (string, error) {
	return f.responsiblePhone, f.responsibleErr
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5511987654321", NormalizePhone("(11) 98765-4321"))
	assert.Equal(t, "5511987654321", NormalizePhone("5511987654321"))
	assert.Equal(t, "551187654321", NormalizePhone("11 8765-4321"))
	assert.Equal(t, "", NormalizePhone("sem numero"))
}

func TestResolvePhone_OverrideWins(t *testing.T) {
	lookups := &fakeLookups{userPhone: "11911111111", responsiblePhone: "11922222222"}
	data := model.NotificationData{OverridePhone: "(11) 98765-4321"}

	phone, err := ResolvePhone(context.Background(), data, lookups)
	assert.NoError(t, err)
	assert.Equal(t, "5511987654321", phone)
}

func TestResolvePhone_UserPhoneFallback(t *testing.T) {
	lookups := &fakeLookups{userPhone: "11911111111", responsiblePhone: "11922222222"}

	phone, err := ResolvePhone(context.Background(), model.NotificationData{}, lookups)
	assert.NoError(t, err)
	assert.Equal(t, "5511911111111", phone)
}

func TestResolvePhone_ResponsibleLastResort(t *testing.T) {
	lookups := &fakeLookups{responsiblePhone: "11922222222"}

	phone, err := ResolvePhone(context.Background(), model.NotificationData{}, lookups)
	assert.NoError(t, err)
	assert.Equal(t, "5511922222222", phone)
}

func TestResolvePhone_SourceErrorDoesNotAbortChain(t *testing.T) {
	lookups := &fakeLookups{
		userErr:          errors.New("usuário não encontrado"),
		responsiblePhone: "11922222222",
	}

	phone, err := ResolvePhone(context.Background(), model.NotificationData{}, lookups)
	assert.NoError(t, err)
	assert.Equal(t, "5511922222222", phone)
}

func TestResolvePhone_NothingFound(t *testing.T) {
	_, err := ResolvePhone(context.Background(), model.NotificationData{}, &fakeLookups{})
	assert.ErrorIs(t, err, ErrPhoneNotFound)
}
