package order

import (
	"context"

	"vitrine-be/internal/address"
	"vitrine-be/internal/cart"
	"vitrine-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Checkout converts the buyer's cart into a PENDING order with its items,
	// address snapshot, stock movements and pending payment, atomically.
	Checkout(ctx context.Context, buyerID, addressID int64, method string) (*Order, error)

	// Reconcile applies the payment provider's verdict to a pending order.
	// Calling it again on a finalized order is a successful no-op.
	Reconcile(ctx context.Context, orderID int64, verdict Verdict) error

	GetOrder(ctx context.Context, orderID, buyerID int64) (*Order, error)
}

type service struct {
	repo  Repository
	carts cart.Reader
	addrs address.Repository
}

func NewService(repo Repository, carts cart.Reader, addrs address.Repository) Service {
	return &service{
		repo:  repo,
		carts: carts,
		addrs: addrs,
	}
}

func (s *service) Checkout(ctx context.Context, buyerID, addressID int64, method string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Int64("buyer_id", buyerID),
		zap.Int64("address_id", addressID),
	)

	if buyerID == 0 {
		return nil, ErrUnauthorized
	}

	addr, err := s.addrs.GetAddress(ctx, addressID, buyerID)
	if err != nil {
		log.Error("failed to resolve address", zap.Error(err))
		return nil, err
	}
	if addr == nil {
		log.Warn("invalid address")
		return nil, ErrInvalidAddress
	}

	c, err := s.carts.GetCart(ctx, buyerID)
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		log.Warn("empty cart")
		return nil, ErrEmptyCart
	}

	order, err := s.repo.CreateOrderTx(ctx, buyerID, addr, c, method)
	if err != nil {
		return nil, err
	}

	log.Info("checkout completed",
		zap.Int64("order_id", order.ID),
		zap.Int64("total_cents", order.TotalCents),
	)

	return order, nil
}

func (s *service) Reconcile(ctx context.Context, orderID int64, verdict Verdict) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Reconcile"),
		zap.Int64("order_id", orderID),
		zap.String("verdict", string(verdict)),
	)

	if verdict != VerdictApproved && verdict != VerdictDeclined {
		return ErrInvalidVerdict
	}

	alreadyFinal, err := s.repo.ReconcileTx(ctx, orderID, verdict)
	if err != nil {
		log.Error("reconciliation failed", zap.Error(err))
		return err
	}

	if alreadyFinal {
		log.Info("duplicate delivery ignored")
	}

	return nil
}

func (s *service) GetOrder(ctx context.Context, orderID, buyerID int64) (*Order, error) {
	order, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != buyerID {
		return nil, ErrUnauthorized
	}

	return order, nil
}
