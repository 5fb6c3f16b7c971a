package get_available_slots

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "10:00"
	EndTime         string `json:"endTime"`   // "11:00"
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// AvailableSlotsResponse HTTP модель ответа
type AvailableSlotsResponse struct {
	BusinessID int64          `json:"businessId"`
	ServiceID  int64          `json:"serviceId"`
	StaffID    *int64         `json:"staffId,omitempty"`
	Date       string         `json:"date"` // "2025-10-15"
	Slots      []SlotResponse `json:"slots"`
}

// ToUseCaseRequest разбирает path/query параметры в модель use case
func ToUseCaseRequest(businessIDStr, serviceIDStr, dateStr, staffIDStr string) (*getAvailableSlots.Request, error) {
	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid businessId: %w", err)
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid serviceId: %w", err)
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	req := &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &staffID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			DurationMinutes: s.DurationMinutes,
			AvailableSpots:  s.AvailableSpots,
			TotalSpots:      s.TotalSpots,
		})
	}

	return &AvailableSlotsResponse{
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		StaffID:    resp.StaffID,
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      slots,
	}
}
