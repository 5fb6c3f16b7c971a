package businessservice

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Business бизнес с недельным расписанием работы
type Business struct {
	ID           int64
	Name         string
	Active       bool
	ManagerIDs   []int64
	WorkingHours domain.WeekSchedule
}

// Service услуга бизнеса
type Service struct {
	ID            int64
	BusinessID    int64
	Name          string
	Price         *float64
	RequiresStaff bool
	StaffIDs      []int64
}

// Staff сотрудник с недельным расписанием
type Staff struct {
	ID           int64
	BusinessID   int64
	Name         string
	Active       bool
	WorkingHours domain.WeekSchedule
}

// DTO ниже - JSON-формы ответов BusinessService.
// Слабо типизированные расписания конвертируются в domain.WeekSchedule
// с валидацией на этой границе, а не внутри бизнес-логики.

type dayScheduleDTO struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

type weekScheduleDTO struct {
	Monday    dayScheduleDTO `json:"monday"`
	Tuesday   dayScheduleDTO `json:"tuesday"`
	Wednesday dayScheduleDTO `json:"wednesday"`
	Thursday  dayScheduleDTO `json:"thursday"`
	Friday    dayScheduleDTO `json:"friday"`
	Saturday  dayScheduleDTO `json:"saturday"`
	Sunday    dayScheduleDTO `json:"sunday"`
}

type businessDTO struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Active       bool            `json:"active"`
	ManagerIDs   []int64         `json:"managerIds"`
	WorkingHours weekScheduleDTO `json:"workingHours"`
}

type serviceDTO struct {
	ID            int64    `json:"id"`
	BusinessID    int64    `json:"businessId"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price,omitempty"`
	RequiresStaff bool     `json:"requiresStaff"`
	StaffIDs      []int64  `json:"staffIds"`
}

type staffDTO struct {
	ID           int64           `json:"id"`
	BusinessID   int64           `json:"businessId"`
	Name         string          `json:"name"`
	Active       bool            `json:"active"`
	WorkingHours weekScheduleDTO `json:"workingHours"`
}

func (d dayScheduleDTO) toDomain() (domain.DaySchedule, error) {
	if !d.IsOpen {
		return domain.DaySchedule{IsOpen: false}, nil
	}
	if d.OpenTime == nil || d.CloseTime == nil {
		return domain.DaySchedule{}, fmt.Errorf("%w: open day without open/close times", ErrInvalidSchedule)
	}

	open, err := types.NewTimeStringFromString(*d.OpenTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	close, err := types.NewTimeStringFromString(*d.CloseTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	day := domain.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close}
	if err := day.Validate(); err != nil {
		return domain.DaySchedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	return day, nil
}

func (d weekScheduleDTO) toDomain() (domain.WeekSchedule, error) {
	var week domain.WeekSchedule
	var err error

	if week.Monday, err = d.Monday.toDomain(); err != nil {
		return week, fmt.Errorf("monday: %w", err)
	}
	if week.Tuesday, err = d.Tuesday.toDomain(); err != nil {
		return week, fmt.Errorf("tuesday: %w", err)
	}
	if week.Wednesday, err = d.Wednesday.toDomain(); err != nil {
		return week, fmt.Errorf("wednesday: %w", err)
	}
	if week.Thursday, err = d.Thursday.toDomain(); err != nil {
		return week, fmt.Errorf("thursday: %w", err)
	}
	if week.Friday, err = d.Friday.toDomain(); err != nil {
		return week, fmt.Errorf("friday: %w", err)
	}
	if week.Saturday, err = d.Saturday.toDomain(); err != nil {
		return week, fmt.Errorf("saturday: %w", err)
	}
	if week.Sunday, err = d.Sunday.toDomain(); err != nil {
		return week, fmt.Errorf("sunday: %w", err)
	}

	return week, nil
}

func (d businessDTO) toDomain() (*Business, error) {
	hours, err := d.WorkingHours.toDomain()
	if err != nil {
		return nil, err
	}
	return &Business{
		ID:           d.ID,
		Name:         d.Name,
		Active:       d.Active,
		ManagerIDs:   d.ManagerIDs,
		WorkingHours: hours,
	}, nil
}

func (d serviceDTO) toDomain() *Service {
	return &Service{
		ID:            d.ID,
		BusinessID:    d.BusinessID,
		Name:          d.Name,
		Price:         d.Price,
		RequiresStaff: d.RequiresStaff,
		StaffIDs:      d.StaffIDs,
	}
}

func (d staffDTO) toDomain() (*Staff, error) {
	hours, err := d.WorkingHours.toDomain()
	if err != nil {
		return nil, err
	}
	return &Staff{
		ID:           d.ID,
		BusinessID:   d.BusinessID,
		Name:         d.Name,
		Active:       d.Active,
		WorkingHours: hours,
	}, nil
}
