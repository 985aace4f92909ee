package domain

import (
	"fmt"
	"math"
	"strings"
)

// MaxItemsPerOrder caps the quantity a single order may request.
const MaxItemsPerOrder = 10

// Product mirrors an entry of GET /productos.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	Quantity    int     `json:"cantidad"`
}

func (p Product) InStock() bool {
	return p.Quantity > 0
}

// MaxOrderQuantity is the largest quantity that may be ordered in one go.
func (p Product) MaxOrderQuantity() int {
	if p.Quantity < 0 {
		return 0
	}
	return min(p.Quantity, MaxItemsPerOrder)
}

// SampleCatalog is shown when the backend cannot be reached.
func SampleCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Relleno de agua", Description: "Relleno de garrafón de 20 litros", Price: 15.0, Quantity: 300},
		{ID: 2, Name: "Garrafón 20L Nuevo", Description: "Garrafón de agua de 20 litros", Price: 35.0, Quantity: 34},
	}
}

// FormatMXN renders an amount the way es-MX currency formatting does: $1,234.50.
func FormatMXN(amount float64) string {
	neg := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := fmt.Sprintf("%d", cents/100)

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg && cents != 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}
