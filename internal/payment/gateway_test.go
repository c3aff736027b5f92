package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGatewayConfig(baseURL string) GatewayConfig {
	return GatewayConfig{
		AccessToken:     "test-token",
		BaseURL:         baseURL,
		SuccessURL:      "https://loja.example/sucesso",
		PendingURL:      "https://loja.example/pendente",
		FailureURL:      "https://loja.example/falha",
		NotificationURL: "https://loja.example/webhook/payment",
	}
}

func testItems() []PreferenceItem {
	return []PreferenceItem{
		{Title: "Caneca", Quantity: 2, UnitPriceCents: 1000},
		{Title: "Camiseta", Quantity: 1, UnitPriceCents: 500},
	}
}

func TestMercadoPagoGateway_CreatePreference(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/checkout/preferences", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "order-ref-1", body["external_reference"])
			assert.Equal(t, true, body["binary_mode"])
			assert.Equal(t, "approved", body["auto_return"])

			items := body["items"].([]interface{})
			require.Len(t, items, 2)
			first := items[0].(map[string]interface{})
			assert.Equal(t, "Caneca", first["title"])
			assert.Equal(t, 10.00, first["unit_price"])

			backURLs := body["back_urls"].(map[string]interface{})
			assert.Equal(t, "https://loja.example/sucesso", backURLs["success"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{
				"id":         "pref-123",
				"init_point": "https://mp.example/redirect/pref-123",
			})
		}))
		defer srv.Close()

		gw := NewMercadoPagoGateway(testGatewayConfig(srv.URL))

		pref, err := gw.CreatePreference(ctx, "order-ref-1", testItems())
		require.NoError(t, err)
		assert.Equal(t, "pref-123", pref.ID)
		assert.Equal(t, "https://mp.example/redirect/pref-123", pref.RedirectURL)
	})

	t.Run("SandboxFallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{
				"id":                 "pref-123",
				"sandbox_init_point": "https://sandbox.mp.example/pref-123",
			})
		}))
		defer srv.Close()

		gw := NewMercadoPagoGateway(testGatewayConfig(srv.URL))

		pref, err := gw.CreatePreference(ctx, "order-ref-1", testItems())
		require.NoError(t, err)
		assert.Equal(t, "https://sandbox.mp.example/pref-123", pref.RedirectURL)
	})

	t.Run("ProviderError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"invalid access token"}`))
		}))
		defer srv.Close()

		gw := NewMercadoPagoGateway(testGatewayConfig(srv.URL))

		_, err := gw.CreatePreference(ctx, "order-ref-1", testItems())
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("MalformedResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		gw := NewMercadoPagoGateway(testGatewayConfig(srv.URL))

		_, err := gw.CreatePreference(ctx, "order-ref-1", testItems())
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("NoRedirectURL", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"id": "pref-123"})
		}))
		defer srv.Close()

		gw := NewMercadoPagoGateway(testGatewayConfig(srv.URL))

		_, err := gw.CreatePreference(ctx, "order-ref-1", testItems())
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		gw := NewMercadoPagoGateway(testGatewayConfig(srv.URL))

		_, err := gw.CreatePreference(ctx, "order-ref-1", testItems())
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})
}
