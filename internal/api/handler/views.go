package handler

import "github.com/purificadora/app-client/internal/core/domain"

type userView struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"telefono,omitempty"`
	Address       string `json:"direccion,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

func sessionUser(s *domain.Session) userView {
	return userView{
		ID:            s.UserID,
		Name:          s.Name,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		Role:          s.Role,
		EmailVerified: s.EmailVerifiedAt != "",
	}
}

func domainUser(u *domain.User) userView {
	role := u.Role
	if role == "" {
		role = domain.DefaultRole
	}
	return userView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Address:       u.Address,
		Role:          role,
		EmailVerified: u.EmailVerified(),
	}
}

type productView struct {
	ID          int     `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	PriceText   string  `json:"precio_texto"`
	Stock       int     `json:"cantidad"`
	InStock     bool    `json:"disponible"`
	MaxQuantity int     `json:"max_cantidad"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PriceText:   domain.FormatMXN(p.Price),
		Stock:       p.Quantity,
		InStock:     p.InStock(),
		MaxQuantity: p.MaxOrderQuantity(),
	}
}

type orderView struct {
	ID        int          `json:"id"`
	ProductID int          `json:"producto_id"`
	Quantity  int          `json:"cantidad"`
	Total     float64      `json:"total"`
	TotalText string       `json:"total_texto"`
	Status    string       `json:"estado"`
	Product   *productView `json:"producto,omitempty"`
}

func toOrderView(o domain.Order) orderView {
	v := orderView{
		ID:        o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Total:     o.Total,
		TotalText: domain.FormatMXN(o.Total),
		Status:    o.Status,
	}
	if o.Product.ID != 0 {
		pv := toProductView(o.Product)
		v.Product = &pv
	}
	return v
}
