package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testClient(handler http.Handler) (*AsaasClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	cfg := GatewayConfig{Provider: ProviderAsaas, Environment: EnvironmentSandbox, APIKey: "key123"}
	return NewAsaasClient(cfg, srv.URL), srv
}

func TestNewAsaasClient_BaseURLByEnvironment(t *testing.T) {
	sandbox := NewAsaasClient(GatewayConfig{Environment: EnvironmentSandbox}, "")
	assert.Equal(t, "https://api-sandbox.asaas.com/v3", sandbox.BaseURL)

	prod := NewAsaasClient(GatewayConfig{Environment: EnvironmentProduction}, "")
	assert.Equal(t, "https://api.asaas.com/v3", prod.BaseURL)

	override := NewAsaasClient(GatewayConfig{Environment: EnvironmentProduction}, "http://localhost:9999/")
	assert.Equal(t, "http://localhost:9999", override.BaseURL)
}

func TestFindCustomerByCPF(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key123", r.Header.Get("access_token"))
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "11122233344", r.URL.Query().Get("cpfCnpj"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "cus_1", "name": "Maria", "cpfCnpj": "11122233344"}},
		})
	}))
	defer srv.Close()

	customer, err := client.FindCustomerByCPF(context.Background(), "11122233344")
	assert.NoError(t, err)
	assert.Equal(t, "cus_1", customer.ID)
}

func TestFindCustomerByCPF_NotFoundReturnsNil(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer srv.Close()

	customer, err := client.FindCustomerByCPF(context.Background(), "00000000000")
	assert.NoError(t, err)
	assert.Nil(t, customer)
}

func TestCreateCharge_PayloadAndResponse(t *testing.T) {
	var got map[string]any
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         "pay_1",
			"invoiceUrl": "https://sandbox.asaas.com/i/pay_1",
		})
	}))
	defer srv.Close()

	charge, err := client.CreateCharge(context.Background(), CreateChargeRequest{
		CustomerID:        "cus_1",
		Value:             450,
		DueDate:           time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Description:       "Parcela 3 - Pedro Souza",
		ExternalReference: "inst-uuid",
	})
	assert.NoError(t, err)
	assert.Equal(t, "pay_1", charge.ID)
	assert.Equal(t, "https://sandbox.asaas.com/i/pay_1", charge.InvoiceURL)

	assert.Equal(t, "cus_1", got["customer"])
	assert.Equal(t, "BOLETO", got["billingType"])
	assert.Equal(t, "2026-09-10", got["dueDate"])
	assert.Equal(t, "inst-uuid", got["externalReference"])
	_, hasSplit := got["split"]
	assert.False(t, hasSplit)
}

func TestCreateCharge_WalletSplit(t *testing.T) {
	var got map[string]any
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "pay_1"})
	}))
	defer srv.Close()
	client.WalletID = "w1"

	_, err := client.CreateCharge(context.Background(), CreateChargeRequest{
		CustomerID: "cus_1", Value: 100, DueDate: time.Now(),
	})
	assert.NoError(t, err)
	assert.Contains(t, got, "split")
}

func TestAsaasErrorBodyIsDecoded(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{
				{"code": "invalid_value", "description": "O valor informado é inválido"},
			},
		})
	}))
	defer srv.Close()

	_, err := client.CreateCustomer(context.Background(), "Maria", "111", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "O valor informado é inválido")
	assert.Contains(t, err.Error(), "invalid_value")
}

func TestAsaasErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := client.DeleteCharge(context.Background(), "pay_1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
