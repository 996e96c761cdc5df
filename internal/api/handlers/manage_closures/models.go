package manage_closures

import "github.com/m04kA/salon-booking/internal/service/catalog/models"

// ClosureListResponse HTTP response model
type ClosureListResponse struct {
	Closures []*models.ClosureResponse `json:"closures"`
	Total    int                       `json:"total"`
}

func newClosureListResponse(items []*models.ClosureResponse) *ClosureListResponse {
	if items == nil {
		items = []*models.ClosureResponse{}
	}
	return &ClosureListResponse{
		Closures: items,
		Total:    len(items),
	}
}
