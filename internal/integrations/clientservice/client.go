package clientservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client клиент для работы с ClientService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ClientService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProfile получает профиль клиента по ссылке
func (c *Client) GetProfile(ctx context.Context, clientRef string) (*Profile, error) {
	reqURL := fmt.Sprintf("%s/internal/clients/%s", c.baseURL, url.PathEscape(clientRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrClientNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetProfileWithGracefulDegradation получает профиль клиента с graceful degradation
// При недоступности ClientService возвращает ErrServiceDegraded: запись все равно
// создается, снимок контактов останется пустым до следующей синхронизации
func (c *Client) GetProfileWithGracefulDegradation(ctx context.Context, clientRef string) (*Profile, error) {
	c.log.Info("Fetching profile for client_ref=%s", clientRef)

	profile, err := c.GetProfile(ctx, clientRef)
	if err != nil {
		// Отсутствие клиента - бизнес-ошибка, пробрасываем её дальше
		if err == ErrClientNotFound {
			c.log.Info("No profile found for client_ref=%s", clientRef)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга и т.д.)
		// применяем graceful degradation
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("ClientService unavailable, applying graceful degradation for client_ref=%s: %v", clientRef, err)
		return nil, fmt.Errorf("%w: client_ref=%s, error=%v", ErrServiceDegraded, clientRef, err)
	}

	c.log.Info("Successfully fetched profile for client_ref=%s", clientRef)
	return profile, nil
}
