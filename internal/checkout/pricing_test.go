package checkout

import (
	"testing"

	"github.com/imrishuroy/fybyshop/internal/cart"
	"github.com/imrishuroy/fybyshop/internal/catalog"
	"github.com/imrishuroy/fybyshop/internal/orders"
)

func option(t *testing.T, cfg Config, id string) *DeliveryOption {
	t.Helper()
	o, ok := cfg.Option(id)
	if !ok {
		t.Fatalf("missing option %q", id)
	}
	return &o
}

func TestComputeDeliveryPrice_PickupIsFree(t *testing.T) {
	cfg := DefaultConfig()
	pickup := option(t, cfg, PickupOptionID)

	for _, addr := range []*orders.Address{
		nil,
		{City: "Porto-Novo"},
		{City: "Calavi"},
		{City: ""},
	} {
		if got := cfg.ComputeDeliveryPrice(pickup, addr); got != 0 {
			t.Fatalf("pickup to %+v: expected 0, got %d", addr, got)
		}
	}
}

func TestComputeDeliveryPrice_Zones(t *testing.T) {
	cfg := DefaultConfig()
	standard := option(t, cfg, StandardOptionID)

	cases := []struct {
		city string
		want int64
	}{
		{"Calavi-Nord", 0},
		{"abomey-calavi", 0},
		{"HÊVIÉ centre", 0},
		{"Cococodji", 0},
		{"pahou", 0},
		{"Porto-Novo", 2500},
		{"Cotonou", 2500},
		{"", 2500},
	}
	for _, tc := range cases {
		if got := cfg.ComputeDeliveryPrice(standard, &orders.Address{City: tc.city}); got != tc.want {
			t.Fatalf("city %q: expected %d, got %d", tc.city, tc.want, got)
		}
	}

	if got := cfg.ComputeDeliveryPrice(standard, nil); got != 2500 {
		t.Fatalf("no address: expected 2500, got %d", got)
	}
}

func TestComputeDeliveryPrice_OnlyPaidOptionCharges(t *testing.T) {
	cfg := DefaultConfig()
	express := &DeliveryOption{ID: "express", Type: orders.DeliveryHome}

	if got := cfg.ComputeDeliveryPrice(express, &orders.Address{City: "Porto-Novo"}); got != 0 {
		t.Fatalf("expected 0 for non-paid option, got %d", got)
	}
	if got := cfg.ComputeDeliveryPrice(nil, &orders.Address{City: "Porto-Novo"}); got != 0 {
		t.Fatalf("expected 0 without option, got %d", got)
	}
}

func TestComputeDeliveryPrice_ConfiguredZones(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FreeShippingZones = []string{"Cotonou"}
	cfg.DeliverySurcharge = 1000
	standard := option(t, cfg, StandardOptionID)

	if got := cfg.ComputeDeliveryPrice(standard, &orders.Address{City: "cotonou"}); got != 0 {
		t.Fatalf("expected configured zone to be free, got %d", got)
	}
	if got := cfg.ComputeDeliveryPrice(standard, &orders.Address{City: "Calavi"}); got != 1000 {
		t.Fatalf("expected configured surcharge, got %d", got)
	}
}

func TestFinalTotal(t *testing.T) {
	lines := []cart.Line{
		{Product: catalog.Product{ID: "a", Price: 5000}, Quantity: 2},
		{Product: catalog.Product{ID: "b", Price: 5000}, Quantity: 1},
	}
	if got := FinalTotal(lines, 2500); got != 17500 {
		t.Fatalf("expected 17500, got %d", got)
	}
	if got := FinalTotal(nil, 0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
