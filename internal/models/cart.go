package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a money value in minor units (cents)
type Amount int64

// Domain errors
var (
	ErrInvalidAmount   = errors.New("amount must look like $12.34")
	ErrInvalidPrice    = errors.New("unit price must be positive")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("cart line not found")
)

// ParseAmount parses displayed money text such as "$19.99", "19.99" or "$2".
// Surrounding whitespace is ignored.
func ParseAmount(text string) (Amount, error) {
	s := strings.TrimSpace(text)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !digits(whole) || hasFrac && (len(frac) == 0 || len(frac) > 2 || !digits(frac)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}

	amount := Amount(units*100 + cents)
	if negative {
		amount = -amount
	}
	return amount, nil
}

// digits reports whether s is a non-empty run of ASCII digits
func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParseAmount is ParseAmount for constants; it panics on bad input
func MustParseAmount(text string) Amount {
	a, err := ParseAmount(text)
	if err != nil {
		panic(err)
	}
	return a
}

// Times returns the amount multiplied by a quantity
func (a Amount) Times(quantity int) Amount {
	return a * Amount(quantity)
}

// String formats the amount the way the storefront renders it, e.g. "$21.99"
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// LineItem is one product line in a cart
type LineItem struct {
	ProductID int
	Name      string
	UnitPrice Amount
	Quantity  int
}

// Total returns unit price times quantity
func (l LineItem) Total() Amount {
	return l.UnitPrice.Times(l.Quantity)
}

// Cart holds line items plus a fixed shipping cost
type Cart struct {
	Items    []LineItem
	Shipping Amount
}

// NewCart creates an empty cart with the given shipping cost
func NewCart(shipping Amount) Cart {
	return Cart{Shipping: shipping}
}

// Add appends a line. A line with a non-zero ProductID already present in the
// cart is merged into the existing line instead.
func (c *Cart) Add(item LineItem) error {
	if item.UnitPrice <= 0 {
		return ErrInvalidPrice
	}
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	if item.ProductID != 0 {
		for i := range c.Items {
			if c.Items[i].ProductID == item.ProductID {
				c.Items[i].Quantity += item.Quantity
				return nil
			}
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// Increment raises the quantity of line i by one
func (c *Cart) Increment(i int) error {
	if i < 0 || i >= len(c.Items) {
		return fmt.Errorf("%w: index %d", ErrLineNotFound, i)
	}
	c.Items[i].Quantity++
	return nil
}

// Decrement lowers the quantity of line i by one. A line never drops below
// one; use Remove to delete it.
func (c *Cart) Decrement(i int) error {
	if i < 0 || i >= len(c.Items) {
		return fmt.Errorf("%w: index %d", ErrLineNotFound, i)
	}
	if c.Items[i].Quantity <= 1 {
		return fmt.Errorf("%w: line %d already at %d", ErrInvalidQuantity, i, c.Items[i].Quantity)
	}
	c.Items[i].Quantity--
	return nil
}

// Remove deletes line i
func (c *Cart) Remove(i int) error {
	if i < 0 || i >= len(c.Items) {
		return fmt.Errorf("%w: index %d", ErrLineNotFound, i)
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

// IndexOf returns the index of the line for a product, or -1
func (c *Cart) IndexOf(productID int) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// ProductTotal is the sum of every line total
func (c Cart) ProductTotal() Amount {
	var total Amount
	for _, item := range c.Items {
		total += item.Total()
	}
	return total
}

// GrandTotal is the product total plus shipping
func (c Cart) GrandTotal() Amount {
	return c.ProductTotal() + c.Shipping
}

// TotalQuantity is the number of units across all lines
func (c Cart) TotalQuantity() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
