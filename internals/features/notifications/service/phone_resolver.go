// file: internals/features/notifications/service/phone_resolver.go
package service

import (
	"context"
	"errors"
	"strings"

	model "escolinha_backend/internals/features/notifications/model"
)

var ErrPhoneNotFound = errors.New("nenhum telefone encontrado para o destinatário")

// PhoneLookups - fontes consultadas pela cadeia de resolução; os testes
// injetam fakes.
type PhoneLookups interface {
	// telefone do perfil do usuário destinatário
	UserPhone(ctx context.Context) (string, error)
	// telefone do responsável financeiro na matrícula/aluno referenciado
	ResponsiblePhone(ctx context.Context) (string, error)
}

// NormalizePhone reduz a dígitos e garante o DDI 55 (Brasil).
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	// número local (DDD + 8/9 dígitos) ganha o DDI
	if len(digits) == 10 || len(digits) == 11 {
		digits = "55" + digits
	}
	return digits
}

// ResolvePhone percorre a cadeia na ordem: override de teste → telefone do
// perfil do usuário → responsável financeiro da matrícula. Corta no primeiro
// resolver que devolver valor.
func ResolvePhone(ctx context.Context, data model.NotificationData, lookups PhoneLookups) (string, error) {
	resolvers := []func() (string, error){
		func() (string, error) { return data.OverridePhone, nil },
		func() (string, error) { return lookups.UserPhone(ctx) },
		func() (string, error) { return lookups.ResponsiblePhone(ctx) },
	}

	for _, resolve := range resolvers {
		raw, err := resolve()
		if err != nil {
			continue // fonte indisponível não interrompe a cadeia
		}
		if phone := NormalizePhone(raw); phone != "" {
			return phone, nil
		}
	}
	return "", ErrPhoneNotFound
}
