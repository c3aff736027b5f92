package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vitrine-be/internal/logger"
	"vitrine-be/internal/money"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.mercadopago.com"

type Gateway interface {
	CreatePreference(
		ctx context.Context,
		externalReference string,
		items []PreferenceItem,
	) (*Preference, error)
}

type GatewayConfig struct {
	AccessToken     string
	BaseURL         string
	SuccessURL      string
	PendingURL      string
	FailureURL      string
	NotificationURL string
}

type mercadoPagoGateway struct {
	cfg        GatewayConfig
	httpClient *http.Client
}

func NewMercadoPagoGateway(cfg GatewayConfig) Gateway {
	if cfg.AccessToken == "" {
		logger.L().Warn("MercadoPago access token is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &mercadoPagoGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type preferenceItemPayload struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

func (g *mercadoPagoGateway) CreatePreference(
	ctx context.Context,
	externalReference string,
	items []PreferenceItem,
) (*Preference, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("external_reference", externalReference),
		zap.Int("item_count", len(items)),
	)

	payloadItems := make([]preferenceItemPayload, 0, len(items))
	for _, it := range items {
		payloadItems = append(payloadItems, preferenceItemPayload{
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: money.FromCents(it.UnitPriceCents).InexactFloat64(),
		})
	}

	body := map[string]interface{}{
		"items":              payloadItems,
		"external_reference": externalReference,
		"back_urls": map[string]string{
			"success": g.cfg.SuccessURL,
			"pending": g.cfg.PendingURL,
			"failure": g.cfg.FailureURL,
		},
		"auto_return": "approved",
		// binary_mode makes the provider settle to approved/rejected only,
		// which is what the reconciliation state machine expects.
		"binary_mode":      true,
		"notification_url": g.cfg.NotificationURL,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/checkout/preferences", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	log.Info("creating payment preference")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("preference request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("provider returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var res preferenceResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrGatewayUnavailable, err)
	}

	redirect := res.InitPoint
	if redirect == "" {
		redirect = res.SandboxInitPoint
	}
	if redirect == "" {
		log.Error("provider returned no redirect URL", zap.String("preference_id", res.ID))
		return nil, fmt.Errorf("%w: no redirect URL in response", ErrGatewayUnavailable)
	}

	log.Info("payment preference created", zap.String("preference_id", res.ID))

	return &Preference{
		ID:          res.ID,
		RedirectURL: redirect,
	}, nil
}
