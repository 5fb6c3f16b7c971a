package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория политик бронирования
type ConfigRepository interface {
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.ServiceBookingPolicy, error)
}

// ExceptionsRepository интерфейс репозитория исключений доступности сотрудников
type ExceptionsRepository interface {
	GetByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]domain.AvailabilityException, error)
	GetByStaffIDsAndDate(ctx context.Context, staffIDs []int64, date time.Time) ([]domain.AvailabilityException, error)
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*businessservice.Staff, error)
	GetServiceStaff(ctx context.Context, businessID, serviceID int64) ([]*businessservice.Staff, error)
}

// SlotCache интерфейс кэша рассчитанных слотов
type SlotCache interface {
	Get(ctx context.Context, businessID, serviceID int64, staffID *int64, date time.Time) ([]domain.AvailableSlot, error)
	Set(ctx context.Context, businessID, serviceID int64, staffID *int64, date time.Time, slots []domain.AvailableSlot) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
