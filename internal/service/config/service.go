package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	configRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/config"
	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
)

// Service сервис для работы с политиками бронирования.
// Любое изменение политики синхронно инвалидирует кэш слотов бизнеса:
// длительность и вместимость меняют весь рассчитанный ландшафт слотов
type Service struct {
	configRepo ConfigRepository
	bsClient   BusinessServiceClient
	cache      SlotCache
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	configRepo ConfigRepository,
	bsClient BusinessServiceClient,
	cache SlotCache,
	logger Logger,
) *Service {
	return &Service{
		configRepo: configRepo,
		bsClient:   bsClient,
		cache:      cache,
		logger:     logger,
	}
}

// Create создает новую политику бронирования
// Доступно только менеджерам бизнеса
// Проверяет существование бизнеса и услуги (если указана)
func (s *Service) Create(ctx context.Context, req *models.CreatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Create: creating policy for business=%d, service=%v by user=%d",
		req.BusinessID, req.ServiceID, req.UserID)

	// 1. Валидируем входные данные
	if err := validatePolicyData(req.DurationMinutes, req.SlotIntervalMinutes,
		req.AdvanceBookingDays, req.MinAdvanceHours, req.CancellationHours,
		req.CapacityPerSlot, req.MaxBookingsPerCustomerPerDay, req.RefundPolicy); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес для проверки прав доступа
	business, err := s.bsClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			s.logger.Warn("Create: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Create: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Проверяем права доступа (только менеджер бизнеса)
	if !s.isManager(business, req.UserID) {
		s.logger.Warn("Create: user=%d is not a manager of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// 4. Если указан serviceID, проверяем существование услуги
	if req.ServiceID != nil {
		if _, err := s.bsClient.GetService(ctx, req.BusinessID, *req.ServiceID); err != nil {
			if errors.Is(err, bsClient.ErrServiceNotFound) {
				s.logger.Warn("Create: service id=%d not found in business=%d", *req.ServiceID, req.BusinessID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Create: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 5. Проверяем, не существует ли уже политика для этой пары
	existing, err := s.configRepo.GetByBusinessAndService(ctx, req.BusinessID, req.ServiceID)
	if err != nil && !errors.Is(err, configRepo.ErrPolicyNotFound) {
		s.logger.Error("Create: failed to check existing policy: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing policy: %v", ErrInternal, err)
	}
	if existing != nil {
		s.logger.Warn("Create: policy already exists for business=%d, service=%v", req.BusinessID, req.ServiceID)
		return nil, ErrPolicyAlreadyExists
	}

	// 6. Создаем политику
	created, err := s.configRepo.Create(ctx, req.ToDomainPolicy())
	if err != nil {
		if errors.Is(err, configRepo.ErrDuplicatePolicy) {
			return nil, ErrPolicyAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	// 7. Инвалидируем кэш слотов бизнеса
	s.invalidate(ctx, req.BusinessID, "Create")

	s.logger.Info("Create: successfully created policy id=%d", created.ID)
	return models.FromDomainPolicy(created), nil
}

// GetWithHierarchy получает действующую политику с учетом иерархии приоритетов
// Публичный метод - приоритет: (business, service) > (business, NULL) > дефолты
func (s *Service) GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*models.PolicyResponse, error) {
	s.logger.Info("GetWithHierarchy: fetching policy for business=%d, service=%v", businessID, serviceID)

	policy, err := s.configRepo.GetWithHierarchy(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, configRepo.ErrPolicyNotFound) {
			// Нет сохранённой политики - действуют дефолты
			defaults := domain.DefaultServiceBookingPolicy()
			defaults.BusinessID = businessID
			defaults.ServiceID = serviceID
			s.logger.Info("GetWithHierarchy: no stored policy for business=%d, returning defaults", businessID)
			return models.FromDomainPolicy(defaults), nil
		}
		s.logger.Error("GetWithHierarchy: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetWithHierarchy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetWithHierarchy: successfully fetched policy id=%d", policy.ID)
	return models.FromDomainPolicy(policy), nil
}

// GetAllByBusiness получает все политики бизнеса
// Доступно только менеджерам бизнеса
func (s *Service) GetAllByBusiness(ctx context.Context, businessID int64, userID int64) (*models.PolicyListResponse, error) {
	s.logger.Info("GetAllByBusiness: fetching policies for business=%d by user=%d", businessID, userID)

	business, err := s.bsClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			s.logger.Warn("GetAllByBusiness: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetAllByBusiness: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !s.isManager(business, userID) {
		s.logger.Warn("GetAllByBusiness: user=%d is not a manager of business=%d", userID, businessID)
		return nil, ErrAccessDenied
	}

	policies, err := s.configRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetAllByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetAllByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllByBusiness: successfully fetched %d policies for business=%d", len(policies), businessID)
	return models.FromDomainPolicyList(policies), nil
}

// Update обновляет существующую политику
// Доступно только менеджерам бизнеса
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating policy id=%d by user=%d", id, req.UserID)

	// 1. Получаем существующую политику
	policy, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, configRepo.ErrPolicyNotFound) {
			s.logger.Warn("Update: policy id=%d not found", id)
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("Update: repository error for policy id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Проверяем права доступа
	business, err := s.bsClient.GetBusiness(ctx, policy.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			s.logger.Warn("Update: business id=%d not found", policy.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: failed to get business id=%d: %v", policy.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !s.isManager(business, req.UserID) {
		s.logger.Warn("Update: user=%d is not a manager of business=%d", req.UserID, policy.BusinessID)
		return nil, ErrAccessDenied
	}

	// 3. Накладываем изменения и валидируем результат
	req.ApplyTo(policy)
	if err := validatePolicyData(policy.DurationMinutes, policy.SlotIntervalMinutes,
		policy.AdvanceBookingDays, policy.MinAdvanceHours, policy.CancellationHours,
		policy.CapacityPerSlot, policy.MaxBookingsPerCustomerPerDay, string(policy.RefundPolicy)); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 4. Сохраняем
	if err := s.configRepo.Update(ctx, policy); err != nil {
		if errors.Is(err, configRepo.ErrPolicyNotFound) {
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("Update: repository error for policy id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 5. Инвалидируем кэш слотов бизнеса
	s.invalidate(ctx, policy.BusinessID, "Update")

	s.logger.Info("Update: successfully updated policy id=%d", id)
	return models.FromDomainPolicy(policy), nil
}

// Вспомогательные методы

// isManager проверяет, что пользователь входит в менеджеры бизнеса
func (s *Service) isManager(business *bsClient.Business, userID int64) bool {
	for _, managerID := range business.ManagerIDs {
		if managerID == userID {
			return true
		}
	}
	return false
}

// invalidate инвалидирует кэш слотов бизнеса (best-effort)
func (s *Service) invalidate(ctx context.Context, businessID int64, op string) {
	if err := s.cache.InvalidateBusiness(ctx, businessID); err != nil {
		s.logger.Error("%s: cache invalidation failed for business=%d: %v", op, businessID, err)
	}
}

// validatePolicyData проверяет значения параметров политики
func validatePolicyData(
	duration, slotInterval, advanceDays, minAdvanceHours, cancellationHours,
	capacity, maxPerDay int,
	refundPolicy string,
) error {
	if duration < domain.MinDurationMinutes || duration > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	if slotInterval < domain.MinSlotIntervalMinutes || slotInterval > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}
	if advanceDays < domain.MinAdvanceBookingDays || advanceDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if minAdvanceHours < 0 {
		return fmt.Errorf("%w: minAdvanceHours must be non-negative", ErrInvalidInput)
	}
	if cancellationHours < 0 {
		return fmt.Errorf("%w: cancellationHours must be non-negative", ErrInvalidInput)
	}
	if capacity < domain.MinCapacityPerSlot || capacity > domain.MaxCapacityPerSlot {
		return fmt.Errorf("%w: capacityPerSlot must be between %d and %d",
			ErrInvalidInput, domain.MinCapacityPerSlot, domain.MaxCapacityPerSlot)
	}
	if maxPerDay <= 0 {
		return fmt.Errorf("%w: maxBookingsPerCustomerPerDay must be positive", ErrInvalidInput)
	}
	if !domain.RefundPolicy(refundPolicy).Valid() {
		return fmt.Errorf("%w: unknown refund policy %q", ErrInvalidInput, refundPolicy)
	}
	return nil
}
