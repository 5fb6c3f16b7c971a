package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/internal/policy"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// rescheduleReason фиксируется в отменяемом бронировании; возврат не начисляется -
// оплата переезжает на новое бронирование
const rescheduleReason = "rescheduled"

// UseCase use case для переноса бронирования.
// Отмена старого и вставка нового выполняются в одной сериализуемой транзакции:
// любой отказ оставляет исходное бронирование нетронутым. Старое бронирование
// исключается из проверки конфликтов собственного слота, поэтому перенос
// внутри своего же интервала всегда допустим.
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

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, customer=%d, date=%s, time=%s",
		req.BookingID, req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		oldBooking *domain.Booking
		newBooking *domain.Booking
		event      domain.Event
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Читаем старое бронирование с блокировкой (FOR UPDATE)
		old, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if old.CustomerID != req.CustomerID {
			uc.logger.Warn("RescheduleBooking: customer id=%d is not the owner of booking id=%d",
				req.CustomerID, req.BookingID)
			return ErrForbidden
		}
		if !old.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d has status %s", old.ID, old.Status)
			return ErrInvalidStatus
		}

		// 2. Политика услуги
		bookingPolicy, err := uc.configRepo.GetWithHierarchy(txCtx, old.BusinessID, ptr.Ptr(old.ServiceID))
		if err != nil && !errors.Is(err, configRepo.ErrPolicyNotFound) {
			uc.logger.Error("RescheduleBooking: failed to get policy: %v", err)
			return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		if bookingPolicy == nil {
			bookingPolicy = domain.DefaultServiceBookingPolicy()
		}

		// 3. Перенос подчиняется тому же гейту, что и отмена
		ok, err := policy.CanCancel(old, now, bookingPolicy.CancellationHours)
		if err != nil {
			return fmt.Errorf("%w: failed to evaluate reschedule gate: %v", ErrInternal, err)
		}
		if !ok {
			uc.logger.Warn("RescheduleBooking: booking id=%d inside %dh window",
				old.ID, bookingPolicy.CancellationHours)
			return ErrTooLateToReschedule
		}

		// 4. Окно бронирования для нового слота
		if err := validateDate(req.Date, now, bookingPolicy.AdvanceBookingDays); err != nil {
			uc.logger.Warn("RescheduleBooking: date validation failed: %v", err)
			return err
		}
		if err := validateBookingTime(req.Date, req.StartTime, now, bookingPolicy.MinAdvanceHours); err != nil {
			uc.logger.Warn("RescheduleBooking: booking time validation failed: %v", err)
			return err
		}

		end, err := req.StartTime.AddMinutes(bookingPolicy.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to compute end time: %v", ErrInternal, err)
		}

		// 5. Рабочие часы бизнеса и (при наличии) сотрудника
		staffID := old.StaffID
		if req.StaffID != nil {
			staffID = req.StaffID
		}
		if err := uc.checkCalendars(txCtx, old, staffID, req.Date, req.StartTime, end); err != nil {
			return err
		}

		// 6. Проверка конфликта нового слота с исключением старого бронирования
		bookings, err := uc.bookingRepo.GetWithFilter(txCtx, domain.BookingsFilter{
			BusinessID: old.BusinessID,
			Date:       &req.Date,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		if staffID != nil {
			if availability.HasStaffConflict(bookings, *staffID, req.StartTime, end, old.ID) {
				uc.logger.Warn("RescheduleBooking: staff id=%d already booked at %s", *staffID, req.StartTime)
				return ErrSlotNotAvailable
			}
		} else {
			if availability.HasPoolConflict(bookings, old.ServiceID, req.StartTime, end, bookingPolicy.CapacityPerSlot, old.ID) {
				uc.logger.Warn("RescheduleBooking: capacity %d exhausted at %s", bookingPolicy.CapacityPerSlot, req.StartTime)
				return ErrSlotNotAvailable
			}
		}

		// 7. Наследуемые поля фиксируются до отмены старого: репозиторий
		// может вернуть живую ссылку, которую отмена мутирует
		inheritedStatus := old.Status
		inheritedPayment := old.PaymentStatus

		// Отменяем старое без начисления возврата
		if err := uc.bookingRepo.Cancel(txCtx, old.ID, domain.CancelledByCustomer, rescheduleReason, 0.0); err != nil {
			uc.logger.Error("RescheduleBooking: failed to cancel old booking id=%d: %v", old.ID, err)
			return fmt.Errorf("%w: failed to cancel old booking: %v", ErrInternal, err)
		}

		// 8. Вставляем новое, наследуя статус, оплату и денормализованные данные
		replacement := &domain.Booking{
			BusinessID:      old.BusinessID,
			ServiceID:       old.ServiceID,
			StaffID:         staffID,
			CustomerID:      old.CustomerID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: bookingPolicy.DurationMinutes,
			Status:          inheritedStatus,
			PaymentStatus:   inheritedPayment,
			ServiceName:     old.ServiceName,
			ServicePrice:    old.ServicePrice,
			Notes:           old.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, replacement)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to create replacement booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		oldBooking = old
		newBooking = created
		event = domain.NewBookingRescheduled(created, old.ID, now)
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: booking id=%d rescheduled to id=%d", oldBooking.ID, newBooking.ID)

	// 9. Инвалидируем кэш обеих дат (синхронно)
	if err := uc.cache.InvalidateDate(ctx, newBooking.BusinessID, oldBooking.BookingDate); err != nil {
		uc.logger.Error("RescheduleBooking: cache invalidation failed for old date: %v", err)
	}
	if !sameDay(oldBooking.BookingDate, newBooking.BookingDate) {
		if err := uc.cache.InvalidateDate(ctx, newBooking.BusinessID, newBooking.BookingDate); err != nil {
			uc.logger.Error("RescheduleBooking: cache invalidation failed for new date: %v", err)
		}
	}

	// 10. Публикуем событие (best-effort)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("RescheduleBooking: failed to publish event: %v", err)
	}

	return &Response{
		ID:              newBooking.ID,
		OldBookingID:    oldBooking.ID,
		CustomerID:      newBooking.CustomerID,
		BusinessID:      newBooking.BusinessID,
		ServiceID:       newBooking.ServiceID,
		StaffID:         newBooking.StaffID,
		BookingDate:     newBooking.BookingDate,
		StartTime:       newBooking.StartTime,
		DurationMinutes: newBooking.DurationMinutes,
		Status:          string(newBooking.Status),
		ServiceName:     newBooking.ServiceName,
		ServicePrice:    newBooking.ServicePrice,
		Notes:           newBooking.Notes,
		CreatedAt:       newBooking.CreatedAt,
	}, nil
}

// checkCalendars проверяет рабочие часы бизнеса и сотрудника для нового слота
func (uc *UseCase) checkCalendars(ctx context.Context, old *domain.Booking, staffID *int64, date time.Time, start, end types.TimeString) error {
	business, err := uc.bsClient.GetBusiness(ctx, old.BusinessID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get business id=%d: %v", old.BusinessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	window := business.WorkingHours.WindowFor(date)
	if window == nil || !window.Contains(start, end) {
		uc.logger.Warn("RescheduleBooking: business closed at %s %s", date.Format(domain.DateFormat), start)
		return ErrBusinessClosed
	}

	if staffID == nil {
		return nil
	}

	// Смена сотрудника допустима только на назначенного на услугу
	if *staffID != ptr.Deref(old.StaffID, 0) {
		service, err := uc.bsClient.GetService(ctx, old.BusinessID, old.ServiceID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get service id=%d: %v", old.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !staffServesService(service, *staffID) {
			uc.logger.Warn("RescheduleBooking: staff id=%d does not provide service id=%d", *staffID, old.ServiceID)
			return ErrStaffNotAssigned
		}
	}

	staff, err := uc.bsClient.GetStaff(ctx, old.BusinessID, *staffID)
	if err != nil {
		if errors.Is(err, bsClient.ErrStaffNotFound) {
			uc.logger.Warn("RescheduleBooking: staff id=%d not found", *staffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get staff id=%d: %v", *staffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		return ErrStaffNotFound
	}

	staffWindow := staff.WorkingHours.WindowFor(date)
	if staffWindow == nil || !staffWindow.Contains(start, end) {
		uc.logger.Warn("RescheduleBooking: staff id=%d off schedule at %s", *staffID, start)
		return ErrStaffUnavailable
	}

	exceptions, err := uc.exceptionsRepo.GetByStaffAndDate(ctx, *staffID, date)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get staff exceptions: %v", err)
		return fmt.Errorf("%w: failed to get staff exceptions: %v", ErrInternal, err)
	}
	if domain.StaffBlocked(exceptions, date, start, end) {
		uc.logger.Warn("RescheduleBooking: staff id=%d blocked by exception on %s",
			*staffID, date.Format(domain.DateFormat))
		return ErrStaffUnavailable
	}

	return nil
}
