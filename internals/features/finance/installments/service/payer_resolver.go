// file: internals/features/finance/installments/service/payer_resolver.go
package service

import (
	"errors"
	"fmt"
	"strings"

	enrollmentModel "escolinha_backend/internals/features/school/enrollments/model"
)

// Payer - identidade resolvida do pagador para criação de cliente no gateway.
type Payer struct {
	Name  string
	CPF   string // somente dígitos
	Email string
}

var ErrPayerCPFNotFound = errors.New("CPF do responsável não encontrado")

// NormalizeCPF descarta tudo que não for dígito.
func NormalizeCPF(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// firstNonEmpty percorre a cadeia de resolvers na ordem e corta no primeiro
// que devolver valor - a regra de precedência fica auditável aqui.
func firstNonEmpty(resolvers ...func() string) string {
	for _, r := range resolvers {
		if v := strings.TrimSpace(r()); v != "" {
			return v
		}
	}
	return ""
}

// ResolvePayer resolve nome/CPF/e-mail do pagador a partir do details da
// matrícula, com fallback final no cadastro do aluno.
// Precedência: responsável explícito (parent) → responsável financeiro →
// nome do candidato; CPF cai por último no CPF do aluno.
// Sem CPF não há como criar o pagador no gateway → erro (do item, não do lote).
func ResolvePayer(details enrollmentModel.EnrollmentDetails, studentName string, studentCPF *string) (Payer, error) {
	parent := details.Parent
	financial := details.FinancialResponsible

	name := firstNonEmpty(
		func() string {
			if parent != nil {
				return parent.Name
			}
			return ""
		},
		func() string {
			if financial != nil {
				return financial.Name
			}
			return ""
		},
		func() string { return details.CandidateName },
		func() string { return studentName },
	)

	cpf := NormalizeCPF(firstNonEmpty(
		func() string {
			if parent != nil {
				return parent.CPF
			}
			return ""
		},
		func() string {
			if financial != nil {
				return financial.CPF
			}
			return ""
		},
		func() string {
			if studentCPF != nil {
				return *studentCPF
			}
			return ""
		},
	))
	if cpf == "" {
		return Payer{}, ErrPayerCPFNotFound
	}

	email := firstNonEmpty(
		func() string {
			if parent != nil {
				return parent.Email
			}
			return ""
		},
		func() string {
			if financial != nil {
				return financial.Email
			}
			return ""
		},
		func() string { return details.ContactEmail },
		// placeholder: a Asaas aceita cliente sem e-mail real
		func() string { return fmt.Sprintf("responsavel+%s@escolinha.app", cpf) },
	)

	return Payer{Name: name, CPF: cpf, Email: email}, nil
}
