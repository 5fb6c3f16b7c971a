package get_business_config

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
)

type ConfigService interface {
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*models.PolicyResponse, error)
	GetAllByBusiness(ctx context.Context, businessID int64, userID int64) (*models.PolicyListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
