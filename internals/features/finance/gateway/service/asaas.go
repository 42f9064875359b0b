// file: internals/features/finance/gateway/service/asaas.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	asaasSandboxURL    = "https://api-sandbox.asaas.com/v3"
	asaasProductionURL = "https://api.asaas.com/v3"
)

/* ==============================
   Tipos da API Asaas
============================== */

type AsaasCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CPFCnpj string `json:"cpfCnpj"`
	Email   string `json:"email,omitempty"`
}

type CreateChargeRequest struct {
	CustomerID        string
	Value             float64
	DueDate           time.Time
	Description       string
	ExternalReference string
}

type AsaasCharge struct {
	ID          string `json:"id"`
	InvoiceURL  string `json:"invoiceUrl"`
	BankSlipURL string `json:"bankSlipUrl,omitempty"`
	Status      string `json:"status,omitempty"`
}

// AsaasAPI - superfície consumida pelos serviços de cobrança; os testes
// substituem por um fake.
type AsaasAPI interface {
	FindCustomerByCPF(ctx context.Context, cpf string) (*AsaasCustomer, error)
	CreateCustomer(ctx context.Context, name, cpf, email string) (*AsaasCustomer, error)
	CreateCharge(ctx context.Context, req CreateChargeRequest) (*AsaasCharge, error)
	UpdateChargeValue(ctx context.Context, chargeID string, newValue float64) error
	DeleteCharge(ctx context.Context, chargeID string) error
}

/* ==============================
   Cliente HTTP
============================== */

type AsaasClient struct {
	BaseURL  string
	APIKey   string
	WalletID string
	client   *http.Client
}

// NewAsaasClient monta o cliente a partir da config resolvida.
// baseURLOverride (ASAAS_BASE_URL) tem precedência - útil em testes/homolog.
func NewAsaasClient(cfg GatewayConfig, baseURLOverride string) *AsaasClient {
	base := strings.TrimSpace(baseURLOverride)
	if base == "" {
		if cfg.Environment == EnvironmentProduction {
			base = asaasProductionURL
		} else {
			base = asaasSandboxURL
		}
	}
	return &AsaasClient{
		BaseURL:  strings.TrimRight(base, "/"),
		APIKey:   cfg.APIKey,
		WalletID: cfg.WalletID,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type asaasErrorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// decodifica o corpo de erro padrão da Asaas para uma mensagem legível
func asaasError(status int, body []byte) error {
	var eb asaasErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Errors) > 0 {
		return fmt.Errorf("asaas: %s (%s)", eb.Errors[0].Description, eb.Errors[0].Code)
	}
	return fmt.Errorf("asaas: status %d", status)
}

func (a *AsaasClient) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", a.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return asaasError(resp.StatusCode, body)
	}
	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}

// FindCustomerByCPF retorna o cliente existente ou nil quando não há.
func (a *AsaasClient) FindCustomerByCPF(ctx context.Context, cpf string) (*AsaasCustomer, error) {
	var result struct {
		Data []AsaasCustomer `json:"data"`
	}
	path := "/customers?cpfCnpj=" + url.QueryEscape(cpf)
	if err := a.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

func (a *AsaasClient) CreateCustomer(ctx context.Context, name, cpf, email string) (*AsaasCustomer, error) {
	payload := map[string]any{
		"name":    name,
		"cpfCnpj": cpf,
	}
	if strings.TrimSpace(email) != "" {
		payload["email"] = email
	}
	var out AsaasCustomer
	if err := a.doJSON(ctx, http.MethodPost, "/customers", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCharge cria uma cobrança BOLETO (a Asaas expõe Pix junto no mesmo
// boleto). externalReference = id da parcela, para correlação no webhook.
func (a *AsaasClient) CreateCharge(ctx context.Context, req CreateChargeRequest) (*AsaasCharge, error) {
	payload := map[string]any{
		"customer":          req.CustomerID,
		"billingType":       "BOLETO",
		"value":             req.Value,
		"dueDate":           req.DueDate.Format("2006-01-02"),
		"description":       req.Description,
		"externalReference": req.ExternalReference,
	}
	if strings.TrimSpace(a.WalletID) != "" {
		payload["split"] = []map[string]any{{"walletId": a.WalletID, "percentualValue": 100}}
	}
	var out AsaasCharge
	if err := a.doJSON(ctx, http.MethodPost, "/payments", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AsaasClient) UpdateChargeValue(ctx context.Context, chargeID string, newValue float64) error {
	payload := map[string]any{"value": newValue}
	return a.doJSON(ctx, http.MethodPut, "/payments/"+chargeID, payload, nil)
}

func (a *AsaasClient) DeleteCharge(ctx context.Context, chargeID string) error {
	return a.doJSON(ctx, http.MethodDelete, "/payments/"+chargeID, nil, nil)
}
