package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	gatewayService "escolinha_backend/internals/features/finance/gateway/service"
	enrollmentModel "escolinha_backend/internals/features/school/enrollments/model"
)

/* ==============================
   Fake do gateway
============================== */

type fakeAsaas struct {
	customers    map[string]*gatewayService.AsaasCustomer // por CPF
	chargeSeq    int
	created      []gatewayService.CreateChargeRequest
	failOnCharge bool
}

func newFakeAsaas() *fakeAsaas {
	return &fakeAsaas{customers: map[string]*gatewayService.AsaasCustomer{}}
}

func (f *fakeAsaas) FindCustomerByCPF(ctx context.Context, cpf string) (*gatewayService.AsaasCustomer, error) {
	return f.customers[cpf], nil
}

func (f *fakeAsaas) CreateCustomer(ctx context.Context, name, cpf, email string) (*gatewayService.AsaasCustomer, error) {
	c := &gatewayService.AsaasCustomer{ID: "cus_" + cpf, Name: name, CPFCnpj: cpf, Email: email}
	f.customers[cpf] = c
	return c, nil
}

func (f *fakeAsaas) CreateCharge(ctx context.Context, req gatewayService.CreateChargeRequest) (*gatewayService.AsaasCharge, error) {
	if f.failOnCharge {
		return nil, errors.New("gateway indisponível")
	}
	f.chargeSeq++
	f.created = append(f.created, req)
	id := fmt.Sprintf("pay_%06d", f.chargeSeq)
	return &gatewayService.AsaasCharge{ID: id, InvoiceURL: "https://sandbox.asaas.com/i/" + id}, nil
}

func (f *fakeAsaas) UpdateChargeValue(ctx context.Context, chargeID string, newValue float64) error {
	return nil
}

func (f *fakeAsaas) DeleteCharge(ctx context.Context, chargeID string) error { return nil }

func chargeItem(num int, cpf string) ChargeItem {
	var studentCPF *string
	if cpf != "" {
		studentCPF = &cpf
	}
	return ChargeItem{
		InstallmentID:     uuid.New(),
		InstallmentNumber: num,
		Value:             450,
		DueDate:           time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StudentName:       "Pedro Souza",
		StudentCPF:        studentCPF,
		Details:           enrollmentModel.EnrollmentDetails{},
	}
}

func TestGenerateCharge_CreatesCustomerAndCharge(t *testing.T) {
	gw := newFakeAsaas()
	item := chargeItem(3, "11122233344")

	out, err := GenerateCharge(context.Background(), gw, item)
	assert.NoError(t, err)
	assert.Equal(t, "pay_000001", out.GatewayID)
	assert.NotEmpty(t, out.BillingURL)

	// cliente criado e cobrança correlacionada pela parcela
	assert.NotNil(t, gw.customers["11122233344"])
	assert.Len(t, gw.created, 1)
	assert.Equal(t, item.InstallmentID.String(), gw.created[0].ExternalReference)
	assert.Equal(t, "Parcela 3 - Pedro Souza", gw.created[0].Description)
}

func TestGenerateCharge_ReusesExistingCustomer(t *testing.T) {
	gw := newFakeAsaas()
	gw.customers["11122233344"] = &gatewayService.AsaasCustomer{ID: "cus_existente", CPFCnpj: "11122233344"}

	_, err := GenerateCharge(context.Background(), gw, chargeItem(1, "11122233344"))
	assert.NoError(t, err)
	assert.Equal(t, "cus_existente", gw.created[0].CustomerID)
}

func TestProcessBatch_IsolatesItemFailures(t *testing.T) {
	gw := newFakeAsaas()
	items := []ChargeItem{
		chargeItem(1, "11122233344"),
		chargeItem(2, ""), // sem CPF em lugar nenhum → falha só deste item
		chargeItem(3, "99988877766"),
	}

	persisted := map[uuid.UUID]ChargeOutcome{}
	persist := func(ctx context.Context, id uuid.UUID, out ChargeOutcome) error {
		persisted[id] = out
		return nil
	}

	result := processBatch(context.Background(), gw, items, persist)

	assert.Equal(t, 3, result.Processed)
	assert.Len(t, result.Details, 3)

	assert.Equal(t, "success", result.Details[0].Status)
	assert.Equal(t, "error", result.Details[1].Status)
	assert.Contains(t, result.Details[1].Message, "CPF")
	assert.Equal(t, "success", result.Details[2].Status)

	// ids distintos para as cobranças criadas
	assert.NotEqual(t, result.Details[0].AsaasID, result.Details[2].AsaasID)

	// só os itens bem-sucedidos chegaram à persistência
	assert.Len(t, persisted, 2)
	assert.NotContains(t, persisted, items[1].InstallmentID)
}

func TestProcessBatch_PersistFailureReportsError(t *testing.T) {
	gw := newFakeAsaas()
	items := []ChargeItem{chargeItem(1, "11122233344")}

	persist := func(ctx context.Context, id uuid.UUID, out ChargeOutcome) error {
		return errors.New("deadlock")
	}

	result := processBatch(context.Background(), gw, items, persist)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, "error", result.Details[0].Status)
	assert.Contains(t, result.Details[0].Message, "falhou ao gravar")
}

func TestProcessBatch_GatewayDownFailsAllItems(t *testing.T) {
	gw := newFakeAsaas()
	gw.failOnCharge = true
	items := []ChargeItem{chargeItem(1, "11122233344"), chargeItem(2, "99988877766")}

	result := processBatch(context.Background(), gw, items, func(ctx context.Context, id uuid.UUID, out ChargeOutcome) error {
		t.Fatal("não deveria persistir nada")
		return nil
	})

	assert.Equal(t, 2, result.Processed)
	for _, d := range result.Details {
		assert.Equal(t, "error", d.Status)
	}
}
