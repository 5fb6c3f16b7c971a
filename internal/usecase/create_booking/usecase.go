package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case для создания бронирования.
// Занятый слот отсекается оптимистичной проверкой обычным чтением; финальная
// проверка конфликта и вставка выполняются в сериализуемой транзакции с
// перечитыванием бронирований FOR UPDATE: при гонке за последнее место
// ровно один из конкурирующих запросов получает слот.
type UseCase struct {
	bookingRepo    BookingRepository
	configRepo     ConfigRepository
	exceptionsRepo ExceptionsRepository
	bsClient       BusinessServiceClient
	cache          SlotCache
	publisher      EventPublisher
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	exceptionsRepo ExceptionsRepository,
	bsClient BusinessServiceClient,
	cache SlotCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		configRepo:     configRepo,
		exceptionsRepo: exceptionsRepo,
		bsClient:       bsClient,
		cache:          cache,
		publisher:      publisher,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, business=%d, service=%d, staff=%v, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес с рабочими часами
	business, err := uc.bsClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	service, err := uc.bsClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, bsClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Услуга с закреплением требует выбранного сотрудника
	if service.RequiresStaff && req.StaffID == nil {
		uc.logger.Warn("CreateBooking: service id=%d requires staff, none given", req.ServiceID)
		return nil, ErrStaffRequired
	}

	// 6. Получаем календарь сотрудника, если он выбран
	var staffCalendar *availability.StaffCalendar
	if req.StaffID != nil {
		staffCalendar, err = uc.loadStaffCalendar(ctx, service, *req.StaffID, req)
		if err != nil {
			return nil, err
		}
	}

	// 7. Политика бронирования с учетом иерархии
	policy, err := uc.configRepo.GetWithHierarchy(ctx, req.BusinessID, ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, configRepo.ErrPolicyNotFound) {
		uc.logger.Error("CreateBooking: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultServiceBookingPolicy()
		uc.logger.Info("CreateBooking: using default policy for business=%d, service=%d",
			req.BusinessID, req.ServiceID)
	}

	// 8. Окно бронирования: дата и минимальный notice
	if err := validateDate(req.Date, now, policy.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}
	if err := validateBookingTime(req.Date, req.StartTime, now, policy.MinAdvanceHours); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	end, err := req.StartTime.AddMinutes(policy.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
	}

	// 9. Рабочие часы бизнеса должны покрывать весь интервал записи
	window := business.WorkingHours.WindowFor(req.Date)
	if window == nil || !window.Contains(req.StartTime, end) {
		uc.logger.Warn("CreateBooking: business closed at %s %s", req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrBusinessClosed
	}

	// 10. Для выбранного сотрудника - его рабочие часы и исключения
	if staffCalendar != nil {
		staffWindow := staffCalendar.Schedule.WindowFor(req.Date)
		if staffWindow == nil || !staffWindow.Contains(req.StartTime, end) {
			uc.logger.Warn("CreateBooking: staff id=%d off schedule at %s", staffCalendar.StaffID, req.StartTime)
			return nil, ErrStaffUnavailable
		}
		if domain.StaffBlocked(staffCalendar.Exceptions, req.Date, req.StartTime, end) {
			uc.logger.Warn("CreateBooking: staff id=%d blocked by exception on %s",
				staffCalendar.StaffID, req.Date.Format(domain.DateFormat))
			return nil, ErrStaffUnavailable
		}
	}

	// 11. Дневной лимит записей клиента
	active, err := uc.bookingRepo.CountActiveByCustomerAndDate(ctx, req.BusinessID, req.CustomerID, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to count customer bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count customer bookings: %v", ErrInternal, err)
	}
	if active >= policy.MaxBookingsPerCustomerPerDay {
		uc.logger.Warn("CreateBooking: customer id=%d reached daily limit %d",
			req.CustomerID, policy.MaxBookingsPerCustomerPerDay)
		return nil, ErrDailyLimitReached
	}

	// 12. Оптимистичная проверка доступности обычным чтением: гонку она не
	// закрывает, но дешево отсекает заведомо занятый слот до открытия транзакции
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		BusinessID: req.BusinessID,
		Date:       &req.Date,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	if err := uc.checkConflict(bookings, req, end, policy); err != nil {
		return nil, err
	}

	var (
		result *domain.Booking
		event  domain.Event
	)

	// 13. Критическая секция: перечитываем бронирования с блокировкой (FOR UPDATE),
	// повторяем проверку конфликта и вставляем в сериализуемой транзакции.
	// Serialization failure (SQLSTATE 40001) перезапускается менеджером транзакций один раз.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		bookings, err := uc.bookingRepo.GetWithFilter(txCtx, domain.BookingsFilter{
			BusinessID: req.BusinessID,
			Date:       &req.Date,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		if err := uc.checkConflict(bookings, req, end, policy); err != nil {
			return err
		}

		// Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			StaffID:         req.StaffID,
			CustomerID:      req.CustomerID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: policy.DurationMinutes,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentUnpaid,
			ServiceName:     service.Name,
			ServicePrice:    getServicePrice(service),
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		event = domain.NewBookingCreated(created, now)
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 14. Инвалидируем кэш слотов бизнеса на дату (синхронно)
	if err := uc.cache.InvalidateDate(ctx, req.BusinessID, req.Date); err != nil {
		uc.logger.Error("CreateBooking: cache invalidation failed: %v", err)
	}

	// 15. Публикуем событие (best-effort, отказ доставки не откатывает бронь)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event: %v", err)
	}

	return toResponse(result), nil
}

// checkConflict проверяет конфликт интервала для своего scope:
// пересечение с бронированиями сотрудника либо исчерпание capacity pool услуги
func (uc *UseCase) checkConflict(bookings []*domain.Booking, req *Request, end types.TimeString, policy *domain.ServiceBookingPolicy) error {
	if req.StaffID != nil {
		if availability.HasStaffConflict(bookings, *req.StaffID, req.StartTime, end, 0) {
			uc.logger.Warn("CreateBooking: staff id=%d already booked at %s", *req.StaffID, req.StartTime)
			return ErrSlotNotAvailable
		}
		return nil
	}

	if availability.HasPoolConflict(bookings, req.ServiceID, req.StartTime, end, policy.CapacityPerSlot, 0) {
		uc.logger.Warn("CreateBooking: capacity %d exhausted at %s", policy.CapacityPerSlot, req.StartTime)
		return ErrSlotNotAvailable
	}
	return nil
}

// loadStaffCalendar проверяет назначение сотрудника на услугу и загружает его календарь
func (uc *UseCase) loadStaffCalendar(ctx context.Context, service *bsClient.Service, staffID int64, req *Request) (*availability.StaffCalendar, error) {
	if !staffServesService(service, staffID) {
		uc.logger.Warn("CreateBooking: staff id=%d does not provide service id=%d", staffID, service.ID)
		return nil, ErrStaffNotAssigned
	}

	staff, err := uc.bsClient.GetStaff(ctx, req.BusinessID, staffID)
	if err != nil {
		if errors.Is(err, bsClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("CreateBooking: staff id=%d is inactive", staffID)
		return nil, ErrStaffNotFound
	}

	exceptions, err := uc.exceptionsRepo.GetByStaffAndDate(ctx, staffID, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get staff exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff exceptions: %v", ErrInternal, err)
	}

	return &availability.StaffCalendar{
		StaffID:    staffID,
		Schedule:   staff.WorkingHours,
		Exceptions: exceptions,
	}, nil
}

// getServicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func getServicePrice(service *bsClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}

// toResponse конвертирует доменную модель в response
func toResponse(b *domain.Booking) *Response {
	end, _ := b.EndTime()
	return &Response{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		BusinessID:      b.BusinessID,
		ServiceID:       b.ServiceID,
		StaffID:         b.StaffID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         end,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
