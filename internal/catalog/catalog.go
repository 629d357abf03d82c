// Package catalog holds the products the register can sell. A built-in list
// ships with the binary; a YAML file can replace it without a rebuild.
package catalog

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Product struct {
	Name        string
	Price       decimal.Decimal
	Description string
}

type Catalog struct {
	products []Product
}

// Builtin returns the stock product list.
func Builtin() *Catalog {
	return &Catalog{products: builtinProducts()}
}

// Load reads a catalog file of the form:
//
//	products:
//	  - name: Classic T-Shirt
//	    price: 14.99
//	    description: 100% cotton unisex tee
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}

	var file struct {
		Products []struct {
			Name        string  `yaml:"name"`
			Price       float64 `yaml:"price"`
			Description string  `yaml:"description"`
		} `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("catalog: %s lists no products", path)
	}

	products := make([]Product, 0, len(file.Products))
	for i, p := range file.Products {
		if p.Name == "" {
			return nil, fmt.Errorf("catalog: product %d in %s has no name", i+1, path)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("catalog: product %q in %s has non-positive price", p.Name, path)
		}
		products = append(products, Product{
			Name:        p.Name,
			Price:       decimal.NewFromFloat(p.Price),
			Description: p.Description,
		})
	}

	return &Catalog{products: products}, nil
}

// Products returns the list in menu order.
func (c *Catalog) Products() []Product {
	products := make([]Product, len(c.products))
	copy(products, c.products)
	return products
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func builtinProducts() []Product {
	price := decimal.RequireFromString

	return []Product{
		// Apparel
		{Name: "Classic T-Shirt", Price: price("14.99"), Description: "100% cotton unisex tee"},
		{Name: "Slim Fit Jeans", Price: price("39.99"), Description: "Denim with stretch comfort"},
		{Name: "Hoodie", Price: price("29.99"), Description: "Fleece-lined pullover hoodie"},
		{Name: "Lightweight Jacket", Price: price("49.99"), Description: "Windbreaker for everyday wear"},
		{Name: "Sneakers", Price: price("59.99"), Description: "Breathable everyday sneakers"},

		// Accessories
		{Name: "Backpack", Price: price("34.99"), Description: "Water-resistant daypack, 20L"},
		{Name: "Water Bottle", Price: price("12.99"), Description: "Insulated stainless steel, 600ml"},
		{Name: "Sunglasses", Price: price("19.99"), Description: "UV400 polarized lenses"},
		{Name: "Cap", Price: price("11.99"), Description: "Adjustable cotton baseball cap"},
		{Name: "Wallet", Price: price("17.49"), Description: "Slim RFID-blocking wallet"},

		// Tech & peripherals
		{Name: "Wireless Earbuds", Price: price("49.99"), Description: "Bluetooth 5.3 with charging case"},
		{Name: "Phone Charger", Price: price("9.99"), Description: "20W USB-C fast charger"},
		{Name: "USB-C Cable", Price: price("6.99"), Description: "1m braided fast-charge cable"},
		{Name: "Smartphone Case", Price: price("15.99"), Description: "Shock-absorbing protective case"},
		{Name: "Wireless Mouse", Price: price("18.99"), Description: "Silent click ergonomic mouse"},

		// Stationery
		{Name: "Notebook", Price: price("7.49"), Description: "A5 dotted journal, 120 pages"},
		{Name: "Pen Set", Price: price("5.99"), Description: "Pack of 5 gel pens, 0.5mm"},
	}
}
