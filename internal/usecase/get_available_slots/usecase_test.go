package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slotcache"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Фейки контрактов use case

type fakeBookingRepo struct {
	bookings []*domain.Booking
	calls    int
}

func (r *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.calls++
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

func (r *fakeExceptionsRepo) GetByStaffIDsAndDate(_ context.Context, staffIDs []int64, date time.Time) ([]domain.AvailabilityException, error) {
	result := make([]domain.AvailabilityException, 0)
	for _, id := range staffIDs {
		byStaff, _ := r.GetByStaffAndDate(context.Background(), id, date)
		result = append(result, byStaff...)
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

func (c *fakeBSClient) GetServiceStaff(_ context.Context, _, _ int64) ([]*bsClient.Staff, error) {
	result := make([]*bsClient.Staff, 0, len(c.staff))
	for _, id := range c.service.StaffIDs {
		if s, ok := c.staff[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

// fakeCache cache-aside кэш в памяти
type fakeCache struct {
	stored map[string][]domain.AvailableSlot
	hits   int
	misses int
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string][]domain.AvailableSlot)}
}

func cacheKey(businessID, serviceID int64, staffID *int64, date time.Time) string {
	key := date.Format(domain.DateFormat)
	if staffID != nil {
		key += ":staff"
	}
	return key
}

func (c *fakeCache) Get(_ context.Context, businessID, serviceID int64, staffID *int64, date time.Time) ([]domain.AvailableSlot, error) {
	slots, ok := c.stored[cacheKey(businessID, serviceID, staffID, date)]
	if !ok {
		c.misses++
		return nil, slotcache.ErrMiss
	}
	c.hits++
	return slots, nil
}

func (c *fakeCache) Set(_ context.Context, businessID, serviceID int64, staffID *int64, date time.Time, slots []domain.AvailableSlot) error {
	c.sets++
	c.stored[cacheKey(businessID, serviceID, staffID, date)] = slots
	return nil
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
	// Понедельник, бизнес работает 09:00-17:00
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
	useCase *UseCase
	repo    *fakeBookingRepo
	config  *fakeConfigRepo
	bs      *fakeBSClient
	cache   *fakeCache
}

func newEnv() *env {
	e := &env{
		repo:   &fakeBookingRepo{},
		config: &fakeConfigRepo{},
		bs: &fakeBSClient{
			business: &bsClient.Business{ID: 1, Active: true, WorkingHours: workWeek()},
			service:  &bsClient.Service{ID: 10, BusinessID: 1, Name: "Haircut", StaffIDs: []int64{5}},
			staff: map[int64]*bsClient.Staff{
				5: {ID: 5, BusinessID: 1, Active: true, WorkingHours: workWeek()},
			},
		},
		cache: newFakeCache(),
	}

	e.useCase = NewUseCase(e.repo, e.config, &fakeExceptionsRepo{}, e.bs, e.cache, noopLogger{})
	e.useCase.timeProvider = &fakeTime{now: testNow}
	return e
}

func request() *Request {
	return &Request{BusinessID: 1, ServiceID: 10, Date: testDate}
}

func TestExecute_ComputesAndCachesSlots(t *testing.T) {
	e := newEnv()

	resp, err := e.useCase.Execute(context.Background(), request())
	require.NoError(t, err)

	// 09:00-17:00, слот 60 минут с шагом 30 - 15 слотов
	require.Len(t, resp.Slots, 15)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "16:00", resp.Slots[14].StartTime.String())

	assert.Equal(t, 1, e.cache.misses)
	assert.Equal(t, 1, e.cache.sets)
	assert.Equal(t, 1, e.repo.calls)
}

func TestExecute_CacheHitSkipsRecompute(t *testing.T) {
	e := newEnv()

	_, err := e.useCase.Execute(context.Background(), request())
	require.NoError(t, err)

	resp, err := e.useCase.Execute(context.Background(), request())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 15)
	assert.Equal(t, 1, e.cache.hits)
	// Повторный запрос не ходит в репозиторий
	assert.Equal(t, 1, e.repo.calls)
}

func TestExecute_StaffScopeCachedSeparately(t *testing.T) {
	e := newEnv()

	_, err := e.useCase.Execute(context.Background(), request())
	require.NoError(t, err)

	req := request()
	req.StaffID = i64(5)
	_, err = e.useCase.Execute(context.Background(), req)
	require.NoError(t, err)

	// Разные scope - разные ключи кэша
	assert.Equal(t, 2, e.cache.misses)
	assert.Equal(t, 2, e.cache.sets)
}

func TestExecute_BookingReducesSlots(t *testing.T) {
	e := newEnv()
	e.repo.bookings = []*domain.Booking{
		{ID: 1, BusinessID: 1, ServiceID: 10, CustomerID: 100,
			BookingDate: testDate, StartTime: types.TimeString("10:00"), DurationMinutes: 60,
			Status: domain.StatusConfirmed},
	}

	resp, err := e.useCase.Execute(context.Background(), request())
	require.NoError(t, err)

	// Бронирование 10:00-11:00 при capacity 1 убирает 09:30, 10:00 и 10:30
	assert.Len(t, resp.Slots, 12)
}

func TestExecute_DateOutsideWindowReturnsEmpty(t *testing.T) {
	e := newEnv()

	// Дальше advance_booking_days=30 - пустой список, не ошибка
	req := request()
	req.Date = testDate.AddDate(0, 2, 0)

	resp, err := e.useCase.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	e := newEnv()
	e.bs.business = nil

	_, err := e.useCase.Execute(context.Background(), request())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_StaffNotAssigned(t *testing.T) {
	e := newEnv()

	req := request()
	req.StaffID = i64(99)

	_, err := e.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotAssigned)
}

func TestExecute_RequiresStaffUsesAllCalendars(t *testing.T) {
	e := newEnv()
	e.bs.service.RequiresStaff = true
	e.bs.service.StaffIDs = []int64{5, 6}
	e.bs.staff[6] = &bsClient.Staff{ID: 6, BusinessID: 1, Active: true, WorkingHours: workWeek()}

	resp, err := e.useCase.Execute(context.Background(), request())
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, 2, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[0].TotalSpots)
}

func TestExecute_VacationRemovesStaffSlots(t *testing.T) {
	e := newEnv()
	exceptions := &fakeExceptionsRepo{
		exceptions: []domain.AvailabilityException{
			{StaffID: 5, Date: testDate, Kind: domain.ExceptionVacation},
		},
	}
	e.useCase = NewUseCase(e.repo, e.config, exceptions, e.bs, e.cache, noopLogger{})
	e.useCase.timeProvider = &fakeTime{now: testNow}

	req := request()
	req.StaffID = i64(5)

	resp, err := e.useCase.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
