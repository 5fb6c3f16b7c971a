package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Фейки контрактов use case

type fakeBookingRepo struct {
	bookings []*domain.Booking
	nextID   int64
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if b.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Date != nil && !b.BookingDate.Equal(*filter.Date) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.nextID++
	created := *booking
	created.ID = r.nextID
	r.bookings = append(r.bookings, &created)
	return &created, nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id int64, by domain.CancelActor, reason string, refundFraction float64) error {
	for _, b := range r.bookings {
		if b.ID == id {
			b.Status = domain.StatusCancelled
			b.CancelledBy = &by
			b.CancellationReason = &reason
			b.RefundFraction = &refundFraction
			return nil
		}
	}
	return bookingRepo.ErrBookingNotFound
}

type fakeConfigRepo struct {
	policy *domain.ServiceBookingPolicy
}

func (r *fakeConfigRepo) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.ServiceBookingPolicy, error) {
	if r.policy == nil {
		return nil, configRepo.ErrPolicyNotFound
	}
	return r.policy, nil
}

type fakeExceptionsRepo struct {
	exceptions []domain.AvailabilityException
}

func (r *fakeExceptionsRepo) GetByStaffAndDate(_ context.Context, staffID int64, date time.Time) ([]domain.AvailabilityException, error) {
	result := make([]domain.AvailabilityException, 0)
	for _, e := range r.exceptions {
		if e.StaffID == staffID && e.Date.Equal(date) {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakeBSClient struct {
	business *bsClient.Business
	service  *bsClient.Service
	staff    map[int64]*bsClient.Staff
}

func (c *fakeBSClient) GetBusiness(_ context.Context, _ int64) (*bsClient.Business, error) {
	if c.business == nil {
		return nil, bsClient.ErrBusinessNotFound
	}
	return c.business, nil
}

func (c *fakeBSClient) GetService(_ context.Context, _, _ int64) (*bsClient.Service, error) {
	if c.service == nil {
		return nil, bsClient.ErrServiceNotFound
	}
	return c.service, nil
}

func (c *fakeBSClient) GetStaff(_ context.Context, _, staffID int64) (*bsClient.Staff, error) {
	staff, ok := c.staff[staffID]
	if !ok {
		return nil, bsClient.ErrStaffNotFound
	}
	return staff, nil
}

type fakeCache struct {
	invalidatedDates []time.Time
}

func (c *fakeCache) InvalidateDate(_ context.Context, _ int64, date time.Time) error {
	c.invalidatedDates = append(c.invalidatedDates, date)
	return nil
}

type fakePublisher struct {
	events []domain.Event
}

func (p *fakePublisher) Publish(_ context.Context, event domain.Event) error {
	p.events = append(p.events, event)
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTime struct {
	now time.Time
}

func (t *fakeTime) Now() time.Time {
	return t.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Тестовая обвязка

var (
	// Старое бронирование: понедельник 2025-10-13 10:00, сотрудник 5
	oldDate = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	// Новая дата: среда той же недели
	newDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	// Расчёт за трое суток до старой записи - гейт отмены не действует
	testNow = time.Date(2025, 10, 10, 10, 0, 0, 0, time.UTC)
)

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func i64(v int64) *int64 {
	return &v
}

func workWeek() domain.WeekSchedule {
	day := domain.DaySchedule{IsOpen: true, OpenTime: tsPtr("09:00"), CloseTime: tsPtr("17:00")}
	return domain.WeekSchedule{Monday: day, Wednesday: day}
}

func oldBooking() *domain.Booking {
	price := 100.0
	notes := "bring documents"
	return &domain.Booking{
		ID:              1,
		BusinessID:      1,
		ServiceID:       10,
		StaffID:         i64(5),
		CustomerID:      100,
		BookingDate:     oldDate,
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentPaid,
		ServiceName:     "Haircut",
		ServicePrice:    price,
		Notes:           &notes,
	}
}

type env struct {
	useCase   *UseCase
	repo      *fakeBookingRepo
	config    *fakeConfigRepo
	bs        *fakeBSClient
	cache     *fakeCache
	publisher *fakePublisher
}

func newEnv() *env {
	price := 100.0
	e := &env{
		repo:   &fakeBookingRepo{bookings: []*domain.Booking{oldBooking()}, nextID: 1},
		config: &fakeConfigRepo{},
		bs: &fakeBSClient{
			business: &bsClient.Business{ID: 1, Active: true, WorkingHours: workWeek()},
			service:  &bsClient.Service{ID: 10, BusinessID: 1, Name: "Haircut", Price: &price, StaffIDs: []int64{5, 6}},
			staff: map[int64]*bsClient.Staff{
				5: {ID: 5, BusinessID: 1, Active: true, WorkingHours: workWeek()},
				6: {ID: 6, BusinessID: 1, Active: true, WorkingHours: workWeek()},
			},
		},
		cache:     &fakeCache{},
		publisher: &fakePublisher{},
	}

	e.useCase = NewUseCase(
		e.repo,
		e.config,
		&fakeExceptionsRepo{},
		e.bs,
		e.cache,
		e.publisher,
		&fakeTxManager{},
		noopLogger{},
	)
	e.useCase.timeProvider = &fakeTime{now: testNow}
	return e
}

func TestExecute_Success(t *testing.T) {
	e := newEnv()

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       newDate,
		StartTime:  types.TimeString("14:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.ID)
	assert.Equal(t, int64(1), resp.OldBookingID)
	assert.Equal(t, newDate, resp.BookingDate)
	assert.Equal(t, types.TimeString("14:00"), resp.StartTime)

	// Новое бронирование наследует статус, оплату и денормализованные данные
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 100.0, resp.ServicePrice)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "bring documents", *resp.Notes)

	// Старое отменено без начисления возврата: оплата переезжает на новое
	old, err := e.repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, old.Status)
	require.NotNil(t, old.CancellationReason)
	assert.Equal(t, "rescheduled", *old.CancellationReason)
	require.NotNil(t, old.RefundFraction)
	assert.Equal(t, 0.0, *old.RefundFraction)

	replacement, err := e.repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, replacement.PaymentStatus)

	// Кэш инвалидирован для обеих дат
	require.Len(t, e.cache.invalidatedDates, 2)
	assert.Equal(t, oldDate, e.cache.invalidatedDates[0])
	assert.Equal(t, newDate, e.cache.invalidatedDates[1])

	require.Len(t, e.publisher.events, 1)
	assert.Equal(t, domain.EventBookingRescheduled, e.publisher.events[0].Type)
}

func TestExecute_OverlapWithOwnOldSlotAllowed(t *testing.T) {
	// Сдвиг на полчаса внутри собственного интервала: старое бронирование
	// исключается из проверки конфликтов и не мешает самому себе
	e := newEnv()

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       oldDate,
		StartTime:  types.TimeString("10:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:30"), resp.StartTime)

	// Даты совпадают - кэш инвалидирован один раз
	assert.Len(t, e.cache.invalidatedDates, 1)
}

func TestExecute_SlotTakenByOther(t *testing.T) {
	e := newEnv()
	e.repo.bookings = append(e.repo.bookings, &domain.Booking{
		ID: 2, BusinessID: 1, ServiceID: 10, StaffID: i64(5), CustomerID: 200,
		BookingDate: newDate, StartTime: types.TimeString("14:00"), DurationMinutes: 60,
		Status: domain.StatusConfirmed,
	})
	e.repo.nextID = 2

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       newDate,
		StartTime:  types.TimeString("14:30"),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Старое бронирование не тронуто
	old, getErr := e.repo.GetByID(context.Background(), 1)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusConfirmed, old.Status)
	assert.Empty(t, e.publisher.events)
}

func TestExecute_TooLateToReschedule(t *testing.T) {
	e := newEnv()
	// За 2 часа до старой записи при cancellation_hours=24
	e.useCase.timeProvider = &fakeTime{now: time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)}

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       newDate,
		StartTime:  types.TimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrTooLateToReschedule)

	old, getErr := e.repo.GetByID(context.Background(), 1)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusConfirmed, old.Status)
}

func TestExecute_Forbidden(t *testing.T) {
	e := newEnv()

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 999,
		Date:       newDate,
		StartTime:  types.TimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExecute_CancelledBookingCannotBeRescheduled(t *testing.T) {
	e := newEnv()
	e.repo.bookings[0].Status = domain.StatusCancelled

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       newDate,
		StartTime:  types.TimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestExecute_StaffChange(t *testing.T) {
	e := newEnv()

	resp, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       newDate,
		StartTime:  types.TimeString("14:00"),
		StaffID:    i64(6),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(6), *resp.StaffID)
}

func TestExecute_StaffChangeToUnassigned(t *testing.T) {
	e := newEnv()

	// Сотрудник 7 не назначен на услугу
	e.bs.staff[7] = &bsClient.Staff{ID: 7, BusinessID: 1, Active: true, WorkingHours: workWeek()}

	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       newDate,
		StartTime:  types.TimeString("14:00"),
		StaffID:    i64(7),
	})
	assert.ErrorIs(t, err, ErrStaffNotAssigned)
}

func TestExecute_BusinessClosedOnNewDate(t *testing.T) {
	e := newEnv()

	// Вторник - выходной
	_, err := e.useCase.Execute(context.Background(), &Request{
		BookingID:  1,
		CustomerID: 100,
		Date:       oldDate.AddDate(0, 0, 1),
		StartTime:  types.TimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrBusinessClosed)
}
