package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a product id is not in the catalog
var ErrProductNotFound = errors.New("product not found")

// Catalog is the immutable, ordered product store
type Catalog struct {
	products []Product
	index    map[string]int
}

// New builds a catalog from products in the given order. The input slice is
// copied; later changes to it do not affect the catalog.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}

	var errs []error
	for i := range products {
		p := &products[i]
		if err := validateProduct(p); err != nil {
			errs = append(errs, fmt.Errorf("product[%d]: %w", i, err))
			continue
		}
		if prev, exists := c.index[p.ID]; exists {
			errs = append(errs, fmt.Errorf("product[%d]: duplicate id %q (first seen at product[%d])", i, p.ID, prev))
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}

	return c, nil
}

// Parse decodes a products fixture (a JSON array of products) into a catalog
func Parse(data []byte) (*Catalog, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}
	return New(products)
}

func validateProduct(p *Product) error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("%s: name is required", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("%s: price must be non-negative, got %v", p.ID, p.Price)
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return fmt.Errorf("%s: rating must be between 0 and %v, got %v", p.ID, MaxRating, p.Rating)
	}
	if p.Reviews < 0 {
		return fmt.Errorf("%s: reviews must be non-negative, got %d", p.ID, p.Reviews)
	}
	return nil
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns every product in catalog order
func (c *Catalog) Products() []Product {
	return c.cloneRange(0, len(c.products))
}

// Each calls fn for every product in catalog order until fn returns false.
// The pointer passed to fn refers to the store's own record and must be
// treated as read-only; fn must not retain it.
func (c *Catalog) Each(fn func(*Product) bool) {
	for i := range c.products {
		if !fn(&c.products[i]) {
			return
		}
	}
}

// Get returns the product with the given id
func (c *Catalog) Get(id string) (Product, error) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i].Clone(), nil
}

// Featured returns the first n products, as shown on the home page
func (c *Catalog) Featured(n int) []Product {
	if n <= 0 {
		return []Product{}
	}
	return c.cloneRange(0, min(n, len(c.products)))
}

// Types returns the distinct millet types in order of first appearance
func (c *Catalog) Types() []string {
	return c.distinct(func(p *Product) string { return p.Type })
}

// Categories returns the distinct categories in order of first appearance
func (c *Catalog) Categories() []string {
	return c.distinct(func(p *Product) string { return p.Category })
}

// PriceBounds returns the lowest and highest price in the catalog.
// Both are zero for an empty catalog.
func (c *Catalog) PriceBounds() (lowest, highest float64) {
	for i := range c.products {
		price := c.products[i].Price
		if i == 0 || price < lowest {
			lowest = price
		}
		if i == 0 || price > highest {
			highest = price
		}
	}
	return lowest, highest
}

// ByFarmer returns the products sold by the named farmer in catalog order
func (c *Catalog) ByFarmer(name string) []Product {
	result := []Product{}
	for i := range c.products {
		if c.products[i].Farmer.Name == name {
			result = append(result, c.products[i].Clone())
		}
	}
	return result
}

func (c *Catalog) cloneRange(from, to int) []Product {
	result := make([]Product, 0, to-from)
	for i := from; i < to; i++ {
		result = append(result, c.products[i].Clone())
	}
	return result
}

func (c *Catalog) distinct(field func(*Product) string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for i := range c.products {
		v := field(&c.products[i])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
