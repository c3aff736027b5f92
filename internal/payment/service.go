package payment

import (
	"context"

	"vitrine-be/internal/logger"
	"vitrine-be/internal/money"

	"go.uber.org/zap"
)

type Service interface {
	// CreatePreference normalizes the raw items, recomputes the total,
	// cross-checks the client-declared one and submits the preference to the
	// provider. The amount charged is always the server-computed total.
	CreatePreference(
		ctx context.Context,
		externalReference string,
		raw []RawItem,
		declaredTotal *float64,
	) (*Preference, error)
}

type service struct {
	gateway Gateway
}

func NewService(gateway Gateway) Service {
	return &service{gateway: gateway}
}

func (s *service) CreatePreference(
	ctx context.Context,
	externalReference string,
	raw []RawItem,
	declaredTotal *float64,
) (*Preference, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreatePreference"),
		zap.Int("item_count", len(raw)),
	)

	items, err := NormalizeItems(raw)
	if err != nil {
		log.Warn("item normalization rejected", zap.Error(err))
		return nil, err
	}

	serverCents := ServerTotalCents(items)
	if err := GuardTotal(serverCents, declaredTotal); err != nil {
		log.Warn("total guard rejected", zap.Error(err),
			zap.String("server_total", money.FormatCents(serverCents)))
		return nil, err
	}

	pref, err := s.gateway.CreatePreference(ctx, externalReference, items)
	if err != nil {
		return nil, err
	}

	log.Info("preference created",
		zap.String("preference_id", pref.ID),
		zap.String("server_total", money.FormatCents(serverCents)),
	)

	return pref, nil
}
