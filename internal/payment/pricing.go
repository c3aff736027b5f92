package payment

import (
	"fmt"
	"strings"

	"vitrine-be/internal/money"
)

const (
	maxItems    = 100
	maxTitleLen = 120
	maxQuantity = 1000

	// One cent of slack absorbs display rounding in the client; anything
	// beyond that is a tampered or buggy total.
	totalToleranceCents = 1
)

// NormalizeItems validates and normalizes the untrusted item list. The
// client-supplied prices are converted to exact cents; anything that cannot
// be represented is rejected rather than rounded.
func NormalizeItems(raw []RawItem) ([]PreferenceItem, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidCart)
	}
	if len(raw) > maxItems {
		return nil, fmt.Errorf("%w: too many items (%d)", ErrInvalidCart, len(raw))
	}

	items := make([]PreferenceItem, 0, len(raw))
	for i, r := range raw {
		title := strings.TrimSpace(r.Name)
		if title == "" {
			return nil, fmt.Errorf("%w: item %d has no title", ErrInvalidCart, i)
		}
		// Truncate on rune boundaries; titles are often accented Portuguese.
		if runes := []rune(title); len(runes) > maxTitleLen {
			title = string(runes[:maxTitleLen])
		}

		if r.Quantity <= 0 || r.Quantity > maxQuantity {
			return nil, fmt.Errorf("%w: item %d has invalid quantity %d", ErrInvalidCart, i, r.Quantity)
		}

		cents, err := money.CentsFromFloat(r.UnitPrice)
		if err != nil || cents <= 0 {
			return nil, fmt.Errorf("%w: item %d has invalid price", ErrInvalidCart, i)
		}

		items = append(items, PreferenceItem{
			Title:          title,
			Quantity:       r.Quantity,
			UnitPriceCents: cents,
		})
	}

	return items, nil
}

// ServerTotalCents is the authoritative amount: the sum of normalized line
// totals. The client-declared total is never charged.
func ServerTotalCents(items []PreferenceItem) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPriceCents
	}
	return total
}

// GuardTotal checks the server total and, when the client declared one,
// compares the two within the one-cent tolerance. The declared total is only
// a tamper and UI-bug detector.
func GuardTotal(serverCents int64, declaredTotal *float64) error {
	if serverCents <= 0 {
		return ErrInvalidTotal
	}

	if declaredTotal == nil {
		return nil
	}

	declaredCents, err := money.CentsFromFloat(*declaredTotal)
	if err != nil {
		return fmt.Errorf("%w: declared total is not a valid amount", ErrTotalMismatch)
	}

	diff := serverCents - declaredCents
	if diff < 0 {
		diff = -diff
	}
	if diff > totalToleranceCents {
		return fmt.Errorf("%w: server=%s declared=%s",
			ErrTotalMismatch, money.FormatCents(serverCents), money.FormatCents(declaredCents))
	}

	return nil
}
