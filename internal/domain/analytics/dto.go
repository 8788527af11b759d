// internal/domain/analytics/dto.go
package analytics

type RecordEventRequest struct {
	Kind Kind `json:"kind" binding:"required"`
}

type StatsQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}
