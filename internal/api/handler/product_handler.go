package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/purificadora/app-client/internal/core/ports"
)

type ProductHandler struct {
	productService ports.ProductService
}

func NewProductHandler(productService ports.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type catalogResponse struct {
	Products []productView `json:"productos"`
	Offline  bool          `json:"offline"`
	Message  string        `json:"message,omitempty"`
}

// List returns the catalog, or the sample catalog when the backend is down.
//
// @Summary      List products
// @Tags         productos
// @Produce      json
// @Success      200  {object}  catalogResponse
// @Failure      401  {object}  errorBody
// @Router       /productos [get]
func (h *ProductHandler) List(c echo.Context) error {
	cat, err := h.productService.Catalog(c.Request().Context())
	if err != nil {
		return err
	}

	resp := catalogResponse{Products: make([]productView, 0, len(cat.Products)), Offline: cat.Offline}
	for _, p := range cat.Products {
		resp.Products = append(resp.Products, toProductView(p))
	}
	if cat.Offline {
		resp.Message = "Mostrando productos de ejemplo"
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns one product.
//
// @Summary      Get product
// @Tags         productos
// @Produce      json
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  productView
// @Failure      404  {object}  errorBody
// @Router       /productos/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductView(*p))
}

// Delete removes a product. Admin only.
//
// @Summary      Delete product
// @Tags         productos
// @Param        id   path  int  true  "Product id"
// @Success      204
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /productos/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
