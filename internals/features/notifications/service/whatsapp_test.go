package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhatsappClient_SendMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/send", r.URL.Path)
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewWhatsappClient(srv.URL+"/", "token123")
	err := client.SendMessage(context.Background(), "5511987654321", "Sua parcela vence amanhã")
	assert.NoError(t, err)
	assert.Equal(t, "5511987654321", got["phone"])
	assert.Equal(t, "Sua parcela vence amanhã", got["message"])
}

func TestWhatsappClient_BridgeErrorSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("sessão do whatsapp desconectada"))
	}))
	defer srv.Close()

	client := NewWhatsappClient(srv.URL, "")
	err := client.SendMessage(context.Background(), "5511987654321", "oi")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "sessão do whatsapp desconectada")
}
