package domain

// Default booking policy values
const (
	DefaultDurationMinutes        = 60
	DefaultSlotIntervalMinutes    = 30
	DefaultAdvanceBookingDays     = 30 // 0 = unlimited
	DefaultMinAdvanceHours        = 1
	DefaultCancellationHours      = 24
	DefaultCapacityPerSlot        = 1
	DefaultMaxBookingsPerCustomer = 3 // на одну дату

	// FullRefundNoticeHours порог полного возврата при отмене (по умолчанию)
	FullRefundNoticeHours = 48
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MinSlotIntervalMinutes      = 5
	MaxSlotIntervalMinutes      = 240
	MinCapacityPerSlot          = 1
	MaxCapacityPerSlot          = 100
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SlotBlockingStatuses статусы, занимающие место в слоте
// Любое неотменённое бронирование блокирует пересекающиеся интервалы
var SlotBlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// TerminalStatuses конечные статусы: дальнейшие переходы запрещены
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
