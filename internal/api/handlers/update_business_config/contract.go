package update_business_config

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
)

type ConfigService interface {
	Create(ctx context.Context, req *models.CreatePolicyRequest) (*models.PolicyResponse, error)
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*models.PolicyResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
