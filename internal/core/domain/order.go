package domain

import "math"

const OrderStatusPending = "pendiente"

// Order mirrors an entry of GET /pedidos.
type Order struct {
	ID        int     `json:"id"`
	ProductID int     `json:"producto_id"`
	Quantity  int     `json:"cantidad"`
	Total     float64 `json:"total"`
	Status    string  `json:"estado"`
	Product   Product `json:"producto"`
}

// OrderRequest is the body of POST and PUT /pedidos.
type OrderRequest struct {
	ProductID int     `json:"producto_id"`
	Quantity  int     `json:"cantidad"`
	Total     float64 `json:"total"`
}

// OrderTotal returns price * quantity rounded to cents.
func OrderTotal(price float64, quantity int) float64 {
	return math.Round(price*float64(quantity)*100) / 100
}
