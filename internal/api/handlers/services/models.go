package services

import "github.com/m04kA/salon-booking/internal/service/catalog/models"

// ServiceListResponse HTTP response model
type ServiceListResponse struct {
	Services []*models.ServiceResponse `json:"services"`
}

func newServiceListResponse(items []*models.ServiceResponse) *ServiceListResponse {
	if items == nil {
		items = []*models.ServiceResponse{}
	}
	return &ServiceListResponse{Services: items}
}
