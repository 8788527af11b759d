// internal/handlers/product/product_handler.go
package product

import (
	"context"
	"net/http"

	"directory-service/internal/domain/auth"
	"directory-service/internal/domain/product"
	"directory-service/internal/middleware"
	"directory-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductService interface {
	ListForVenue(ctx context.Context, slug string) ([]product.Product, error)
	Create(ctx context.Context, venueID uuid.UUID, actor auth.Actor, req *product.CreateProductRequest) (*product.Product, error)
	Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error
}

type ProductHandler struct {
	productService ProductService
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListVenueProducts returns the catalog items the venue plan shows
func (h *ProductHandler) ListVenueProducts(c *gin.Context) {
	products, err := h.productService.ListForVenue(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ServiceError(c, "failed to list products", err)
		return
	}

	response.Success(c, http.StatusOK, "products retrieved", products)
}

// CreateProduct adds a catalog item within the plan limit (owner or admin)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid venue ID", err)
		return
	}

	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.productService.Create(c.Request.Context(), venueID, middleware.MustGetActor(c), &req)
	if err != nil {
		response.ServiceError(c, "failed to create product", err)
		return
	}

	response.Success(c, http.StatusCreated, "product created", created)
}

// DeleteProduct removes a catalog item (owner or admin)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id, middleware.MustGetActor(c)); err != nil {
		response.ServiceError(c, "failed to delete product", err)
		return
	}

	response.Success(c, http.StatusOK, "product deleted", nil)
}
