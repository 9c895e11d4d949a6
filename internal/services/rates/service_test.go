package rates

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

func newTestService(store *stubRateStore) *Service {
	return NewService(store, []string{"USDT", "USD"}, common.NewSilentLogger())
}

func TestConvertManyToBase_ConvertsEachItem(t *testing.T) {
	store := newStubRateStore()
	store.put("VES", "USD", "0.02", models.RateSourcePeerToPeer, time.Now())
	store.put("ARS", "USD", "0.00074", models.RateSourceOfficial, time.Now())

	items := []interfaces.ConversionItem{
		{Amount: dec("5000"), CurrencyCode: "VES"},
		{Amount: dec("100000"), CurrencyCode: "ARS"},
		{Amount: dec("25"), CurrencyCode: "USD"},
	}

	out, err := newTestService(store).ConvertManyToBase(context.Background(), items, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 items, got %d", len(out))
	}

	if !out[0].ConvertedAmount.Equal(dec("100")) {
		t.Errorf("VES item = %s, want 100", out[0].ConvertedAmount)
	}
	if !out[1].ConvertedAmount.Equal(dec("74")) {
		t.Errorf("ARS item = %s, want 74", out[1].ConvertedAmount)
	}
	// Identity conversion for items already in base.
	if !out[2].ConvertedAmount.Equal(dec("25")) {
		t.Errorf("USD item = %s, want 25", out[2].ConvertedAmount)
	}
	if out[2].Rate == nil || !out[2].Rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("USD item rate = %v, want 1", out[2].Rate)
	}
}

func TestConvertManyToBase_ResolvesEachCurrencyOnce(t *testing.T) {
	store := newStubRateStore()
	store.put("VES", "USD", "0.02", models.RateSourcePeerToPeer, time.Now())

	items := []interfaces.ConversionItem{
		{Amount: dec("100"), CurrencyCode: "VES"},
		{Amount: dec("200"), CurrencyCode: "VES"},
		{Amount: dec("300"), CurrencyCode: "VES"},
	}

	_, err := newTestService(store).ConvertManyToBase(context.Background(), items, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One direct lookup for VES/USD; duplicates hit the per-call cache.
	if store.latestCalls != 1 {
		t.Errorf("store lookups = %d, want 1", store.latestCalls)
	}
}

func TestConvertManyToBase_UnresolvedPassesThrough(t *testing.T) {
	store := newStubRateStore()
	store.put("VES", "USD", "0.02", models.RateSourcePeerToPeer, time.Now())

	items := []interfaces.ConversionItem{
		{Amount: dec("5000"), CurrencyCode: "VES"},
		{Amount: dec("9999"), CurrencyCode: "JPY"},
	}

	out, err := newTestService(store).ConvertManyToBase(context.Background(), items, "USD")
	if err != nil {
		t.Fatalf("unresolved currency must not fail the batch: %v", err)
	}

	if out[0].Rate == nil {
		t.Error("VES item should carry a rate")
	}
	if out[1].Rate != nil {
		t.Errorf("JPY item rate = %v, want nil", out[1].Rate)
	}
	if !out[1].ConvertedAmount.Equal(dec("9999")) {
		t.Errorf("JPY item amount = %s, want original 9999", out[1].ConvertedAmount)
	}
}

func TestConvertManyToBase_InvalidBaseRejected(t *testing.T) {
	_, err := newTestService(newStubRateStore()).ConvertManyToBase(context.Background(), nil, "dollars")
	if err == nil {
		t.Fatal("expected error for invalid base code")
	}
}

func TestConvertManyToBase_InvalidItemCodeRejected(t *testing.T) {
	items := []interfaces.ConversionItem{{Amount: dec("1"), CurrencyCode: "X"}}
	_, err := newTestService(newStubRateStore()).ConvertManyToBase(context.Background(), items, "USD")
	if err == nil {
		t.Fatal("expected error for invalid item code")
	}
}
