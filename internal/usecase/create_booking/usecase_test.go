package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Фейки контрактов use case

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	created := *booking
	created.ID = r.nextID
	r.bookings = append(r.bookings, &created)
	return &created, nil
}

func (r *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *fakeBookingRepo) CountActiveByCustomerAndDate(_ context.Context, businessID, customerID int64, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, b := range r.bookings {
		if b.BusinessID == businessID && b.CustomerID == customerID &&
			b.BookingDate.Equal(date) && b.Status != domain.StatusCancelled {
			count++
		}
	}
	return count, nil
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
	staff    *bsClient.Staff
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

func (c *fakeBSClient) GetStaff(_ context.Context, _, _ int64) (*bsClient.Staff, error) {
	if c.staff == nil {
		return nil, bsClient.ErrStaffNotFound
	}
	return c.staff, nil
}

type fakeCache struct {
	mu            sync.Mutex
	invalidations int
}

func (c *fakeCache) InvalidateDate(_ context.Context, _ int64, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *fakePublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// fakeTxManager сериализует транзакции мьютексом, имитируя serializable isolation
type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
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
	// Понедельник, бизнес и сотрудник работают 09:00-17:00
	testDate = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2025, 10, 12, 12, 0, 0, 0, time.UTC)
)

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func i64(v int64) *int64 {
	return &v
}

func workWeek() domain.WeekSchedule {
	return domain.WeekSchedule{
		Monday: domain.DaySchedule{IsOpen: true, OpenTime: tsPtr("09:00"), CloseTime: tsPtr("17:00")},
	}
}

type env struct {
	useCase     *UseCase
	bookingRepo *fakeBookingRepo
	configRepo  *fakeConfigRepo
	bs          *fakeBSClient
	cache       *fakeCache
	publisher   *fakePublisher
	txManager   *fakeTxManager
}

func newEnv() *env {
	price := 100.0
	e := &env{
		bookingRepo: &fakeBookingRepo{},
		configRepo:  &fakeConfigRepo{},
		bs: &fakeBSClient{
			business: &bsClient.Business{ID: 1, Active: true, WorkingHours: workWeek()},
			service:  &bsClient.Service{ID: 10, BusinessID: 1, Name: "Haircut", Price: &price, StaffIDs: []int64{5}},
			staff:    &bsClient.Staff{ID: 5, BusinessID: 1, Active: true, WorkingHours: workWeek()},
		},
		cache:     &fakeCache{},
		publisher: &fakePublisher{},
		txManager: &fakeTxManager{},
	}

	e.useCase = NewUseCase(
		e.bookingRepo,
		e.configRepo,
		&fakeExceptionsRepo{},
		e.bs,
		e.cache,
		e.publisher,
		e.txManager,
		noopLogger{},
	)
	e.useCase.timeProvider = &fakeTime{now: testNow}
	return e
}

func validRequest() *Request {
	return &Request{
		CustomerID: 100,
		BusinessID: 1,
		ServiceID:  10,
		Date:       testDate,
		StartTime:  types.TimeString("10:00"),
	}
}

func TestExecute_Success(t *testing.T) {
	e := newEnv()

	resp, err := e.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 100.0, resp.ServicePrice)

	// Кэш слотов инвалидирован, событие опубликовано
	assert.Equal(t, 1, e.cache.invalidations)
	require.Len(t, e.publisher.events, 1)
	assert.Equal(t, domain.EventBookingCreated, e.publisher.events[0].Type)
}

func TestExecute_StaffRequired(t *testing.T) {
	e := newEnv()
	e.bs.service.RequiresStaff = true

	_, err := e.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffRequired)
}

func TestExecute_StaffNotAssigned(t *testing.T) {
	e := newEnv()

	req := validRequest()
	req.StaffID = i64(99) // не входит в StaffIDs услуги

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotAssigned)
}

func TestExecute_InactiveStaff(t *testing.T) {
	e := newEnv()
	e.bs.staff.Active = false

	req := validRequest()
	req.StaffID = i64(5)

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_BusinessClosed(t *testing.T) {
	e := newEnv()

	req := validRequest()
	req.Date = testDate.AddDate(0, 0, 1) // вторник - выходной

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	e := newEnv()

	req := validRequest()
	req.StartTime = types.TimeString("16:30") // конец 17:30 за пределами окна

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	e := newEnv()

	// При advance_booking_days=30 дата на 31-й день отклоняется
	req := validRequest()
	req.Date = time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, 31)

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_DateInPast(t *testing.T) {
	e := newEnv()

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_TooLateToBook(t *testing.T) {
	e := newEnv()
	// Запрос в день бронирования: min_advance=1h, старт 10:00 при now 09:30
	e.useCase.timeProvider = &fakeTime{now: time.Date(2025, 10, 13, 9, 30, 0, 0, time.UTC)}

	_, err := e.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_DailyLimitReached(t *testing.T) {
	e := newEnv()

	// Дефолтный лимит - 3 бронирования на дату
	for _, start := range []string{"09:00", "11:00", "13:00"} {
		e.bookingRepo.bookings = append(e.bookingRepo.bookings, &domain.Booking{
			ID: int64(len(e.bookingRepo.bookings) + 1), BusinessID: 1, ServiceID: 10, CustomerID: 100,
			BookingDate: testDate, StartTime: types.TimeString(start), DurationMinutes: 60,
			Status: domain.StatusConfirmed,
		})
	}

	req := validRequest()
	req.StartTime = types.TimeString("15:00")

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestExecute_SlotConflict_Staff(t *testing.T) {
	e := newEnv()

	other := int64(200)
	e.bookingRepo.bookings = append(e.bookingRepo.bookings, &domain.Booking{
		ID: 1, BusinessID: 1, ServiceID: 10, StaffID: i64(5), CustomerID: other,
		BookingDate: testDate, StartTime: types.TimeString("10:30"), DurationMinutes: 60,
		Status: domain.StatusConfirmed,
	})
	e.bookingRepo.nextID = 1

	req := validRequest()
	req.StaffID = i64(5)

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// Занятый слот отсекается оптимистичной проверкой до открытия транзакции
	assert.Equal(t, 0, e.txManager.calls)
}

func TestExecute_SlotConflict_PoolCapacity(t *testing.T) {
	e := newEnv()

	// capacity_per_slot=1: одно пересекающееся бронирование пула исчерпывает слот
	e.bookingRepo.bookings = append(e.bookingRepo.bookings, &domain.Booking{
		ID: 1, BusinessID: 1, ServiceID: 10, CustomerID: 200,
		BookingDate: testDate, StartTime: types.TimeString("10:00"), DurationMinutes: 60,
		Status: domain.StatusPending,
	})
	e.bookingRepo.nextID = 1

	_, err := e.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_BoundaryTouchDoesNotConflict(t *testing.T) {
	e := newEnv()

	e.bookingRepo.bookings = append(e.bookingRepo.bookings, &domain.Booking{
		ID: 1, BusinessID: 1, ServiceID: 10, StaffID: i64(5), CustomerID: 200,
		BookingDate: testDate, StartTime: types.TimeString("09:00"), DurationMinutes: 60,
		Status: domain.StatusConfirmed,
	})
	e.bookingRepo.nextID = 1

	// Новая запись начинается ровно в момент окончания существующей
	req := validRequest()
	req.StaffID = i64(5)
	req.StartTime = types.TimeString("10:00")

	resp, err := e.useCase.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
}

func TestExecute_CustomPolicyOverridesDefaults(t *testing.T) {
	e := newEnv()
	e.configRepo.policy = &domain.ServiceBookingPolicy{
		BusinessID:                   1,
		DurationMinutes:              30,
		SlotIntervalMinutes:          15,
		AdvanceBookingDays:           30,
		MinAdvanceHours:              1,
		CancellationHours:            24,
		CapacityPerSlot:              1,
		MaxBookingsPerCustomerPerDay: 3,
		RefundPolicy:                 domain.RefundPolicyTiered,
	}

	resp, err := e.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, types.TimeString("10:30"), resp.EndTime)
}

// Два конкурирующих запроса на последний свободный слот:
// ровно один выигрывает, второй получает ErrSlotNotAvailable
func TestExecute_ConcurrentRequests_ExactlyOneWinner(t *testing.T) {
	e := newEnv()

	makeRequest := func(customerID int64) *Request {
		req := validRequest()
		req.CustomerID = customerID
		req.StaffID = i64(5)
		return req
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = e.useCase.Execute(context.Background(), makeRequest(int64(100+idx)))
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case assert.ErrorIs(t, err, ErrSlotNotAvailable):
			losers++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, losers)

	// В хранилище ровно одно бронирование
	assert.Len(t, e.bookingRepo.bookings, 1)
}
