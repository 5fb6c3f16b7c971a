package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/internal/policy"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case для отмены бронирования.
// Клиентская отмена проходит через гейт политики (cancellationHours) и ступенчатый
// возврат; принудительная отмена бизнесом - отдельный путь с полным возвратом.
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	bsClient     BusinessServiceClient
	cache        SlotCache
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	bsClient BusinessServiceClient,
	cache SlotCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		bsClient:     bsClient,
		cache:        cache,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет клиентскую отмену бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, customer=%d", req.BookingID, req.CustomerID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var cancelled *domain.Booking
	var event domain.Event

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// Читаем бронирование с блокировкой (FOR UPDATE внутри транзакции)
		booking, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		// Отменять может только владелец
		if booking.CustomerID != req.CustomerID {
			uc.logger.Warn("CancelBooking: customer id=%d is not the owner of booking id=%d",
				req.CustomerID, req.BookingID)
			return ErrForbidden
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d has status %s", booking.ID, booking.Status)
			return ErrInvalidStatus
		}

		// Политика отмены услуги
		bookingPolicy, err := uc.policyFor(txCtx, booking)
		if err != nil {
			return err
		}

		// Гейт отмены: до начала записи должно оставаться больше cancellationHours
		ok, err := policy.CanCancel(booking, now, bookingPolicy.CancellationHours)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to evaluate cancellation gate: %v", err)
			return fmt.Errorf("%w: failed to evaluate cancellation gate: %v", ErrInternal, err)
		}
		if !ok {
			uc.logger.Warn("CancelBooking: booking id=%d inside %dh cancellation window",
				booking.ID, bookingPolicy.CancellationHours)
			return ErrTooLateToCancel
		}

		// Доля возврата фиксируется в момент отмены
		refund, err := policy.RefundFraction(booking, now, bookingPolicy.CancellationHours, bookingPolicy.RefundPolicy)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to compute refund fraction: %v", err)
			return fmt.Errorf("%w: failed to compute refund fraction: %v", ErrInternal, err)
		}

		return uc.applyCancel(txCtx, booking, domain.CancelledByCustomer, ptr.Deref(req.Reason, ""), refund, now, &cancelled, &event)
	})

	if err != nil {
		return nil, err
	}

	uc.finish(ctx, cancelled, event, "CancelBooking")
	return toResponse(cancelled), nil
}

// ExecuteForced выполняет принудительную отмену бронирования бизнесом.
// Обходит гейт cancellationHours и всегда фиксирует полный возврат
func (uc *UseCase) ExecuteForced(ctx context.Context, req *ForcedRequest) (*Response, error) {
	uc.logger.Info("ForceCancelBooking: booking=%d, manager=%d", req.BookingID, req.ManagerID)

	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.ManagerID <= 0 {
		return nil, fmt.Errorf("%w: managerID must be positive", ErrInvalidInput)
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required for forced cancellation", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var cancelled *domain.Booking
	var event domain.Event

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		// Принудительно отменять может только менеджер бизнеса
		if err := uc.checkManager(txCtx, booking.BusinessID, req.ManagerID); err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("ForceCancelBooking: booking id=%d has status %s", booking.ID, booking.Status)
			return ErrInvalidStatus
		}

		return uc.applyCancel(txCtx, booking, domain.CancelledByBusiness, req.Reason, policy.ForcedRefundFraction(), now, &cancelled, &event)
	})

	if err != nil {
		return nil, err
	}

	uc.finish(ctx, cancelled, event, "ForceCancelBooking")
	return toResponse(cancelled), nil
}

// getBooking читает бронирование, маппя not found на sentinel usecase
func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			uc.logger.Warn("CancelBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// policyFor возвращает политику бронирования услуги, либо дефолтную
func (uc *UseCase) policyFor(ctx context.Context, booking *domain.Booking) (*domain.ServiceBookingPolicy, error) {
	bookingPolicy, err := uc.configRepo.GetWithHierarchy(ctx, booking.BusinessID, ptr.Ptr(booking.ServiceID))
	if err != nil && !errors.Is(err, configRepo.ErrPolicyNotFound) {
		uc.logger.Error("CancelBooking: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	if bookingPolicy == nil {
		bookingPolicy = domain.DefaultServiceBookingPolicy()
	}
	return bookingPolicy, nil
}

// checkManager проверяет, что пользователь входит в менеджеры бизнеса
func (uc *UseCase) checkManager(ctx context.Context, businessID, managerID int64) error {
	business, err := uc.bsClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			uc.logger.Warn("ForceCancelBooking: business id=%d not found", businessID)
			return ErrForbidden
		}
		uc.logger.Error("ForceCancelBooking: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	for _, id := range business.ManagerIDs {
		if id == managerID {
			return nil
		}
	}

	uc.logger.Warn("ForceCancelBooking: user id=%d is not a manager of business id=%d", managerID, businessID)
	return ErrForbidden
}

// applyCancel выполняет доменный переход и персистит отмену
func (uc *UseCase) applyCancel(
	ctx context.Context,
	booking *domain.Booking,
	by domain.CancelActor,
	reason string,
	refund float64,
	now time.Time,
	outBooking **domain.Booking,
	outEvent *domain.Event,
) error {
	event, err := booking.Cancel(by, reason, refund, now)
	if err != nil {
		uc.logger.Warn("CancelBooking: transition rejected for booking id=%d: %v", booking.ID, err)
		return ErrInvalidStatus
	}

	if err := uc.bookingRepo.Cancel(ctx, booking.ID, by, reason, refund); err != nil {
		uc.logger.Error("CancelBooking: failed to persist cancellation for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	*outBooking = booking
	*outEvent = event
	return nil
}

// finish инвалидирует кэш и публикует событие после коммита (best-effort)
func (uc *UseCase) finish(ctx context.Context, booking *domain.Booking, event domain.Event, op string) {
	uc.logger.Info("%s: successfully cancelled booking id=%d, refund=%.2f",
		op, booking.ID, ptr.Deref(booking.RefundFraction, 0))

	if err := uc.cache.InvalidateDate(ctx, booking.BusinessID, booking.BookingDate); err != nil {
		uc.logger.Error("%s: cache invalidation failed: %v", op, err)
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("%s: failed to publish event: %v", op, err)
	}
}

// isNotFound маппит ошибку репозитория на отсутствие записи
func isNotFound(err error) bool {
	return errors.Is(err, bookingRepo.ErrBookingNotFound)
}

// toResponse конвертирует доменную модель в response
func toResponse(b *domain.Booking) *Response {
	resp := &Response{
		ID:             b.ID,
		Status:         string(b.Status),
		RefundFraction: ptr.Deref(b.RefundFraction, 0),
		Reason:         b.CancellationReason,
	}
	if b.CancelledBy != nil {
		resp.CancelledBy = string(*b.CancelledBy)
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = *b.CancelledAt
	}
	return resp
}
