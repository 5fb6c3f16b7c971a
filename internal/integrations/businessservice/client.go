package businessservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с BusinessService (каталог бизнесов, услуг и сотрудников)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента BusinessService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBusiness получает бизнес с его рабочими часами
func (c *Client) GetBusiness(ctx context.Context, businessID int64) (*Business, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d", c.baseURL, businessID)

	var dto businessDTO
	if err := c.getJSON(ctx, url, &dto, ErrBusinessNotFound); err != nil {
		return nil, err
	}

	business, err := dto.toDomain()
	if err != nil {
		c.log.Error("GetBusiness: business id=%d has invalid schedule: %v", businessID, err)
		return nil, err
	}

	return business, nil
}

// GetService получает услугу бизнеса
func (c *Client) GetService(ctx context.Context, businessID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/services/%d", c.baseURL, businessID, serviceID)

	var dto serviceDTO
	if err := c.getJSON(ctx, url, &dto, ErrServiceNotFound); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// GetStaff получает сотрудника бизнеса с его рабочими часами
func (c *Client) GetStaff(ctx context.Context, businessID, staffID int64) (*Staff, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/staff/%d", c.baseURL, businessID, staffID)

	var dto staffDTO
	if err := c.getJSON(ctx, url, &dto, ErrStaffNotFound); err != nil {
		return nil, err
	}

	staff, err := dto.toDomain()
	if err != nil {
		c.log.Error("GetStaff: staff id=%d has invalid schedule: %v", staffID, err)
		return nil, err
	}

	return staff, nil
}

// GetServiceStaff получает всех сотрудников, обслуживающих услугу
func (c *Client) GetServiceStaff(ctx context.Context, businessID, serviceID int64) ([]*Staff, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/services/%d/staff", c.baseURL, businessID, serviceID)

	var dtos []staffDTO
	if err := c.getJSON(ctx, url, &dtos, ErrServiceNotFound); err != nil {
		return nil, err
	}

	staff := make([]*Staff, 0, len(dtos))
	for _, dto := range dtos {
		s, err := dto.toDomain()
		if err != nil {
			c.log.Error("GetServiceStaff: staff id=%d has invalid schedule: %v", dto.ID, err)
			return nil, err
		}
		staff = append(staff, s)
	}

	return staff, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
