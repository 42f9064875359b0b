package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	enrollmentModel "escolinha_backend/internals/features/school/enrollments/model"
)

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "12345678901", NormalizeCPF("123.456.789-01"))
	assert.Equal(t, "12345678901", NormalizeCPF(" 123 456 789 01 "))
	assert.Equal(t, "", NormalizeCPF("sem digitos"))
}

func TestResolvePayer_ParentWins(t *testing.T) {
	details := enrollmentModel.EnrollmentDetails{
		Parent: &enrollmentModel.ResponsiblePerson{
			Name: "Maria Souza", CPF: "111.222.333-44", Email: "maria@example.com",
		},
		FinancialResponsible: &enrollmentModel.ResponsiblePerson{
			Name: "João Souza", CPF: "555.666.777-88", Email: "joao@example.com",
		},
	}

	payer, err := ResolvePayer(details, "Pedro Souza", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Maria Souza", payer.Name)
	assert.Equal(t, "11122233344", payer.CPF)
	assert.Equal(t, "maria@example.com", payer.Email)
}

func TestResolvePayer_FinancialResponsibleFallback(t *testing.T) {
	details := enrollmentModel.EnrollmentDetails{
		FinancialResponsible: &enrollmentModel.ResponsiblePerson{
			Name: "João Souza", CPF: "555.666.777-88",
		},
		ContactEmail: "contato@example.com",
	}

	payer, err := ResolvePayer(details, "Pedro Souza", nil)
	assert.NoError(t, err)
	assert.Equal(t, "João Souza", payer.Name)
	assert.Equal(t, "55566677788", payer.CPF)
	assert.Equal(t, "contato@example.com", payer.Email)
}

func TestResolvePayer_StudentCPFLastResort(t *testing.T) {
	studentCPF := "999.888.777-66"
	details := enrollmentModel.EnrollmentDetails{CandidateName: "Pedro Souza"}

	payer, err := ResolvePayer(details, "Pedro Souza", &studentCPF)
	assert.NoError(t, err)
	assert.Equal(t, "Pedro Souza", payer.Name)
	assert.Equal(t, "99988877766", payer.CPF)
	// sem e-mail em lugar nenhum cai no placeholder
	assert.Equal(t, "responsavel+99988877766@escolinha.app", payer.Email)
}

func TestResolvePayer_NoCPFAnywhere(t *testing.T) {
	details := enrollmentModel.EnrollmentDetails{
		Parent: &enrollmentModel.ResponsiblePerson{Name: "Maria Souza"},
	}

	_, err := ResolvePayer(details, "Pedro Souza", nil)
	assert.ErrorIs(t, err, ErrPayerCPFNotFound)
}

func TestResolvePayer_NameFallsBackToStudent(t *testing.T) {
	studentCPF := "11122233344"
	payer, err := ResolvePayer(enrollmentModel.EnrollmentDetails{}, "Pedro Souza", &studentCPF)
	assert.NoError(t, err)
	assert.Equal(t, "Pedro Souza", payer.Name)
}
