package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ComputeInput входные данные расчёта доступных слотов
type ComputeInput struct {
	ServiceID        int64
	Date             time.Time
	BusinessSchedule domain.WeekSchedule
	Policy           *domain.ServiceBookingPolicy

	// Staff задан - считаем слоты конкретного сотрудника;
	// иначе при RequiresStaff слот доступен, если свободен хотя бы один из AllStaff;
	// при RequiresStaff=false работает capacity pool услуги
	Staff         *StaffCalendar
	AllStaff      []StaffCalendar
	RequiresStaff bool

	// Bookings все неотменённые бронирования бизнеса на дату
	Bookings []*domain.Booking

	Now time.Time
}

// ComputeSlots генерирует упорядоченный список доступных слотов на дату.
// Чистая функция от входа и текущего состояния бронирований: конечная, перезапускаемая.
//
// Алгоритм:
//  1. Эффективное окно = окно бизнеса, при заданном сотруднике пересечённое с его окном.
//     Пустое пересечение или закрытый день -> пустой результат.
//  2. Полнодневное блокирующее исключение сотрудника -> пустой результат.
//  3. Курсор шагает от открытия с шагом slot_interval; кандидат (cursor, cursor+duration)
//     формируется, пока cursor+duration <= close. Соседние кандидаты могут пересекаться
//     друг с другом - это сознательно: клиент выбирает старт с мелкой гранулярностью
//     при более крупной длительности.
//  4. Кандидат допускается, если детектор конфликтов не видит конфликта для своего scope.
func ComputeSlots(in ComputeInput) ([]domain.AvailableSlot, error) {
	if in.Policy == nil {
		return nil, fmt.Errorf("availability: policy is required")
	}

	window := in.BusinessSchedule.WindowFor(in.Date)
	if window == nil {
		return []domain.AvailableSlot{}, nil
	}

	if in.Staff != nil {
		staffWindow := in.Staff.Schedule.WindowFor(in.Date)
		if staffWindow == nil {
			return []domain.AvailableSlot{}, nil
		}
		window = window.Intersect(*staffWindow)
		if window == nil {
			return []domain.AvailableSlot{}, nil
		}
		if domain.StaffBlockedWholeDay(in.Staff.Exceptions, in.Date) {
			return []domain.AvailableSlot{}, nil
		}
	}

	// Минимально допустимое время старта для сегодняшней даты
	minStart, err := minStartFor(in.Date, in.Now, in.Policy.MinAdvanceHours)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.AvailableSlot, 0)
	cursor := window.Open

	for cursor.IsBefore(window.Close) {
		// Выход за полночь означает end > window.Close - кандидатов больше нет
		end, err := cursor.AddMinutes(in.Policy.DurationMinutes)
		if err != nil {
			break
		}
		if end.IsAfter(window.Close) {
			break
		}

		if minStart == nil || !cursor.IsBefore(*minStart) {
			if slot, ok := admitCandidate(in, cursor, end); ok {
				slots = append(slots, slot)
			}
		}

		cursor, err = cursor.AddMinutes(in.Policy.SlotIntervalMinutes)
		if err != nil {
			break
		}
	}

	return slots, nil
}

// admitCandidate проверяет кандидата детектором конфликтов для своего scope
func admitCandidate(in ComputeInput, start, end types.TimeString) (domain.AvailableSlot, bool) {
	slot := domain.AvailableSlot{
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: in.Policy.DurationMinutes,
	}

	switch {
	case in.Staff != nil:
		if domain.StaffBlocked(in.Staff.Exceptions, in.Date, start, end) {
			return slot, false
		}
		if HasStaffConflict(in.Bookings, in.Staff.StaffID, start, end, 0) {
			return slot, false
		}
		slot.AvailableSpots = 1
		slot.TotalSpots = 1
		return slot, true

	case in.RequiresStaff:
		free := CountStaffFreeFor(in.AllStaff, in.Date, start, end, in.Bookings)
		if free == 0 {
			return slot, false
		}
		slot.AvailableSpots = free
		slot.TotalSpots = len(in.AllStaff)
		return slot, true

	default:
		taken := CountPoolOverlapping(in.Bookings, in.ServiceID, start, end, 0)
		if taken >= in.Policy.CapacityPerSlot {
			return slot, false
		}
		slot.AvailableSpots = in.Policy.CapacityPerSlot - taken
		slot.TotalSpots = in.Policy.CapacityPerSlot
		return slot, true
	}
}

// minStartFor возвращает минимально допустимое время старта слота для даты,
// либо nil если ограничение не действует (дата дальше, чем now + minAdvanceHours)
func minStartFor(date time.Time, now time.Time, minAdvanceHours int) (*types.TimeString, error) {
	earliest := now.Add(time.Duration(minAdvanceHours) * time.Hour)

	y1, m1, d1 := date.Date()
	y2, m2, d2 := earliest.Date()

	// Дата раньше минимально допустимого дня - все слоты отсекаются
	if y1 < y2 || (y1 == y2 && (m1 < m2 || (m1 == m2 && d1 < d2))) {
		full := types.TimeString("24:00")
		return &full, nil
	}
	// Дата позже - ограничение не действует
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return nil, nil
	}

	min := types.NewTimeString(earliest)
	return &min, nil
}
