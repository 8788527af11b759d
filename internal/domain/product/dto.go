// internal/domain/product/dto.go
package product

import "directory-service/internal/domain/i18n"

type CreateProductRequest struct {
	Name     i18n.Text `json:"name"`
	Price    float64   `json:"price" binding:"min=0"`
	ImageURL string    `json:"image_url" binding:"omitempty,url"`
	Position *int      `json:"position" binding:"omitempty,min=0"`
}
