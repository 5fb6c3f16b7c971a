package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slotcache"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case для получения доступных слотов бронирования.
// Читает через кэш (cache-aside): промах пересчитывает слоты и сохраняет результат.
// Кэш не источник истины - финальная проверка конфликта при создании брони идёт мимо него.
type UseCase struct {
	bookingRepo    BookingRepository
	configRepo     ConfigRepository
	exceptionsRepo ExceptionsRepository
	bsClient       BusinessServiceClient
	cache          SlotCache
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
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		configRepo:     configRepo,
		exceptionsRepo: exceptionsRepo,
		bsClient:       bsClient,
		cache:          cache,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, staff=%v, date=%s",
		req.BusinessID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Пробуем кэш
	if slots, err := uc.cache.Get(ctx, req.BusinessID, req.ServiceID, req.StaffID, req.Date); err == nil {
		uc.logger.Info("GetAvailableSlots: cache hit, %d slots", len(slots))
		return uc.response(req, slots), nil
	} else if !errors.Is(err, slotcache.ErrMiss) {
		// Недоступный Redis не должен ломать чтение - деградируем до пересчёта
		uc.logger.Error("GetAvailableSlots: cache get failed: %v", err)
	}

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	// 4. Получаем бизнес с рабочими часами
	business, err := uc.bsClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 5. Получаем услугу
	service, err := uc.bsClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, bsClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 6. Получаем политику бронирования с учетом иерархии
	policy, err := uc.configRepo.GetWithHierarchy(ctx, req.BusinessID, ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, configRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultServiceBookingPolicy()
		uc.logger.Info("GetAvailableSlots: using default policy for business=%d, service=%d",
			req.BusinessID, req.ServiceID)
	}

	// 7. Даты вне окна бронирования - не ошибка, а пустой список слотов
	if !withinBookingWindow(req.Date, now, policy.AdvanceBookingDays) {
		uc.logger.Info("GetAvailableSlots: date %s outside booking window", req.Date.Format(domain.DateFormat))
		return uc.response(req, []domain.AvailableSlot{}), nil
	}

	// 8. Собираем календари сотрудников под нужный scope
	in := availability.ComputeInput{
		ServiceID:        req.ServiceID,
		Date:             req.Date,
		BusinessSchedule: business.WorkingHours,
		Policy:           policy,
		RequiresStaff:    service.RequiresStaff,
		Now:              now,
	}

	if req.StaffID != nil {
		calendar, err := uc.staffCalendar(ctx, service, *req.StaffID, req.Date)
		if err != nil {
			return nil, err
		}
		in.Staff = calendar
	} else if service.RequiresStaff {
		all, err := uc.allStaffCalendars(ctx, req, req.Date)
		if err != nil {
			return nil, err
		}
		in.AllStaff = all
	}

	// 9. Получаем все неотменённые бронирования бизнеса на дату
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		BusinessID: req.BusinessID,
		Date:       &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	in.Bookings = bookings

	// 10. Генерируем слоты
	slots, err := availability.ComputeSlots(in)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: computed %d slots", len(slots))

	// 11. Сохраняем в кэш (best-effort)
	if err := uc.cache.Set(ctx, req.BusinessID, req.ServiceID, req.StaffID, req.Date, slots); err != nil {
		uc.logger.Error("GetAvailableSlots: cache set failed: %v", err)
	}

	return uc.response(req, slots), nil
}

// staffCalendar загружает календарь конкретного сотрудника и проверяет,
// что он обслуживает запрошенную услугу
func (uc *UseCase) staffCalendar(ctx context.Context, service *bsClient.Service, staffID int64, date time.Time) (*availability.StaffCalendar, error) {
	if !staffServesService(service, staffID) {
		uc.logger.Warn("GetAvailableSlots: staff id=%d does not provide service id=%d", staffID, service.ID)
		return nil, ErrStaffNotAssigned
	}

	staff, err := uc.bsClient.GetStaff(ctx, service.BusinessID, staffID)
	if err != nil {
		if errors.Is(err, bsClient.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", staffID)
		return nil, ErrStaffNotFound
	}

	exceptions, err := uc.exceptionsRepo.GetByStaffAndDate(ctx, staffID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff exceptions: %v", ErrInternal, err)
	}

	return &availability.StaffCalendar{
		StaffID:    staffID,
		Schedule:   staff.WorkingHours,
		Exceptions: exceptions,
	}, nil
}

// allStaffCalendars загружает календари всех активных сотрудников услуги
// для scope'а "любой сотрудник"
func (uc *UseCase) allStaffCalendars(ctx context.Context, req *Request, date time.Time) ([]availability.StaffCalendar, error) {
	staff, err := uc.bsClient.GetServiceStaff(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get service staff: %v", err)
		return nil, fmt.Errorf("%w: failed to get service staff: %v", ErrInternal, err)
	}

	staffIDs := make([]int64, 0, len(staff))
	for _, s := range staff {
		if s.Active {
			staffIDs = append(staffIDs, s.ID)
		}
	}

	exceptions, err := uc.exceptionsRepo.GetByStaffIDsAndDate(ctx, staffIDs, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff exceptions: %v", ErrInternal, err)
	}

	byStaff := make(map[int64][]domain.AvailabilityException, len(staffIDs))
	for _, exc := range exceptions {
		byStaff[exc.StaffID] = append(byStaff[exc.StaffID], exc)
	}

	calendars := make([]availability.StaffCalendar, 0, len(staffIDs))
	for _, s := range staff {
		if !s.Active {
			continue
		}
		calendars = append(calendars, availability.StaffCalendar{
			StaffID:    s.ID,
			Schedule:   s.WorkingHours,
			Exceptions: byStaff[s.ID],
		})
	}

	return calendars, nil
}

func (uc *UseCase) response(req *Request, slots []domain.AvailableSlot) *Response {
	return &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Date:       req.Date,
		Slots:      slots,
	}
}
