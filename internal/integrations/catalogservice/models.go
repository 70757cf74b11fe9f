package catalogservice

// Service модель услуги из CatalogService
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

// AddOn модель дополнения к услуге из CatalogService
type AddOn struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	ExtraMinutes         int     `json:"extra_minutes"`
	ExtraPrice           float64 `json:"extra_price"`
	CompatibleServiceIDs []int64 `json:"compatible_service_ids"`
}

// CompatibleWith проверяет, применимо ли дополнение к услуге
func (a AddOn) CompatibleWith(serviceID int64) bool {
	for _, id := range a.CompatibleServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
