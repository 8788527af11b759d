// internal/domain/region/entity.go
package region

type Region struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Slug   string `json:"slug" db:"slug"`
	Cities []City `json:"cities"`
}

type City struct {
	ID       int64  `json:"id" db:"id"`
	RegionID int64  `json:"region_id" db:"region_id"`
	Name     string `json:"name" db:"name"`
	Slug     string `json:"slug" db:"slug"`
}
