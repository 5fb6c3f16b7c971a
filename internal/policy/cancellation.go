// Package policy движок политики отмены бронирований:
// проверка права на отмену и вычисление доли возврата
package policy

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Notice возвращает время между "сейчас" и началом бронирования
func Notice(bookingStart, now time.Time) time.Duration {
	return bookingStart.Sub(now)
}

// CanCancel проверяет право клиента на отмену:
// статус допускает отмену и до начала записи осталось строго больше cancellationHours
func CanCancel(b *domain.Booking, now time.Time, cancellationHours int) (bool, error) {
	if !b.CanBeCancelled() {
		return false, nil
	}
	start, err := b.StartDateTime()
	if err != nil {
		return false, err
	}
	return now.Add(time.Duration(cancellationHours) * time.Hour).Before(start), nil
}

// RefundFraction вычисляет долю возврата для клиентской отмены.
//
// Ступенчатая политика по умолчанию:
//   - notice >= 48h                        -> 1.0
//   - cancellationHours <= notice < 48h    -> 0.5
//   - notice < cancellationHours           -> 0.0 (в норме недостижимо: отмена
//     уже заблокирована CanCancel; ветка остаётся для политики no_refund и
//     защитного вызова без гейта)
//
// Политика no_refund всегда возвращает 0.0 независимо от notice.
func RefundFraction(b *domain.Booking, now time.Time, cancellationHours int, refundPolicy domain.RefundPolicy) (float64, error) {
	if refundPolicy == domain.RefundPolicyNoRefund {
		return 0.0, nil
	}

	start, err := b.StartDateTime()
	if err != nil {
		return 0, err
	}
	notice := Notice(start, now)

	switch {
	case notice >= domain.FullRefundNoticeHours*time.Hour:
		return 1.0, nil
	case notice >= time.Duration(cancellationHours)*time.Hour:
		return 0.5, nil
	default:
		return 0.0, nil
	}
}

// ForcedRefundFraction доля возврата при принудительной отмене бизнесом.
// Принудительная отмена (приостановка бизнеса, недоступность сотрудника) обходит
// CanCancel целиком и всегда возвращает полную стоимость - это отдельный переход,
// а не ослабленный клиентский путь.
func ForcedRefundFraction() float64 {
	return 1.0
}
