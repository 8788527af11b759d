// internal/domain/claim/dto.go
package claim

type SubmitClaimRequest struct {
	Name         string `json:"name" binding:"required,max=120"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"max=30"`
	Message      string `json:"message" binding:"max=2000"`
	CaptchaToken string `json:"captcha_token" binding:"required"`
}

type ApproveClaimRequest struct {
	// OwnerID is the auth subject that becomes the venue owner.
	OwnerID string `json:"owner_id" binding:"required"`
}

type ClaimListFilters struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type ClaimListResponse struct {
	Claims     []Request `json:"claims"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
