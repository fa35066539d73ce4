package storefront

import (
	"errors"
	"strings"
	"testing"
)

func TestProduct_PriceText(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    string
	}{
		{name: "regular", product: Product{Price: 1651}, want: "$16.51"},
		{name: "discounted", product: Product{Price: 2898, OldPrice: 3051, Reduction: 5}, want: "$28.98 $30.51 -5%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.product.PriceText(); got != tt.want {
				t.Errorf("PriceText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalog_Find(t *testing.T) {
	catalog := DefaultCatalog()

	p, err := catalog.Find(2)
	if err != nil {
		t.Fatalf("Find(2) unexpected error = %v", err)
	}
	if p.Name != "Blouse" {
		t.Errorf("Find(2) = %q, want Blouse", p.Name)
	}

	if _, err := catalog.Find(99); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Find(99) error = %v, want ErrProductNotFound", err)
	}
}

func TestCatalog_Search(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		term string
		want int
	}{
		{term: "Dress", want: 3},
		{term: "  dress ", want: 3},
		{term: "blouse", want: 1},
		{term: "", want: 0},
		{term: "sneakers", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := catalog.Search(tt.term)
			if len(got) != tt.want {
				t.Fatalf("Search(%q) returned %d products, want %d", tt.term, len(got), tt.want)
			}
			for _, p := range got {
				if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(strings.TrimSpace(tt.term))) {
					t.Errorf("Search(%q) returned %q", tt.term, p.Name)
				}
			}
		})
	}
}

func TestDefaultCatalog_HasDiscountedProduct(t *testing.T) {
	for _, p := range DefaultCatalog() {
		if p.Discounted() {
			return
		}
	}
	t.Error("DefaultCatalog() has no discounted product")
}
