package manage_closures

import (
	"context"

	"github.com/m04kA/salon-booking/internal/service/catalog/models"
)

type ClosureService interface {
	ListClosures(ctx context.Context, req models.ListClosuresRequest) ([]*models.ClosureResponse, error)
	CreateClosure(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error)
	DeleteClosure(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
