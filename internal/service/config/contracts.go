package config

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
)

// ConfigRepository интерфейс репозитория политик бронирования
type ConfigRepository interface {
	Create(ctx context.Context, policy *domain.ServiceBookingPolicy) (*domain.ServiceBookingPolicy, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceBookingPolicy, error)
	GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.ServiceBookingPolicy, error)
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.ServiceBookingPolicy, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.ServiceBookingPolicy, error)
	Update(ctx context.Context, policy *domain.ServiceBookingPolicy) error
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
}

// SlotCache интерфейс кэша слотов для инвалидации
type SlotCache interface {
	InvalidateBusiness(ctx context.Context, businessID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
