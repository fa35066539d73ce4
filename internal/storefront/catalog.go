// Package storefront serves a small replica of the practice storefront the
// suite targets, so runs can be hermetic.
package storefront

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adyen/shopcheck/internal/models"
)

// ErrProductNotFound is returned for an unknown product id
var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry
type Product struct {
	ID    int
	Name  string
	Price models.Amount
	// OldPrice and Reduction are set on discounted products
	OldPrice  models.Amount
	Reduction int
	Colors    []string
}

// Discounted reports whether the product shows a struck-through price
func (p Product) Discounted() bool {
	return p.OldPrice > 0
}

// PriceText renders the price block the way product tiles show it
func (p Product) PriceText() string {
	if !p.Discounted() {
		return p.Price.String()
	}
	return fmt.Sprintf("%s %s -%d%%", p.Price, p.OldPrice, p.Reduction)
}

// Catalog is the ordered list of featured products
type Catalog []Product

// DefaultCatalog returns the featured products of the practice store
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: 1, Name: "Faded Short Sleeve T-shirts", Price: 1651, Colors: []string{"Orange", "Blue"}},
		{ID: 2, Name: "Blouse", Price: 2700, Colors: []string{"Black", "White"}},
		{ID: 3, Name: "Printed Dress", Price: 2600, Colors: []string{"Orange", "Beige"}},
		{ID: 5, Name: "Printed Summer Dress", Price: 2898, OldPrice: 3051, Reduction: 5, Colors: []string{"Black", "Orange", "Blue", "Yellow"}},
		{ID: 7, Name: "Printed Chiffon Dress", Price: 1640, OldPrice: 2050, Reduction: 20, Colors: []string{"Yellow", "Green"}},
	}
}

// Find returns the product with the given id
func (c Catalog) Find(id int) (Product, error) {
	for _, p := range c {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
}

// Search matches product names containing term, ignoring case
func (c Catalog) Search(term string) []Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	var out []Product
	for _, p := range c {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}
