package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Renal37/resto-dashboard/internal/models"
)

// RemoteOrderSource представляет реализацию источника заказов поверх REST API,
// когда панель работает отдельно от сервиса заказов. Использует ровно два
// вызова: получение авторитетного списка и смену статуса.
type RemoteOrderSource struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewRemoteOrderSource создает клиент удалённого сервиса заказов.
func NewRemoteOrderSource(endpoint, token string) *RemoteOrderSource {
	return &RemoteOrderSource{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{},
	}
}

func (r *RemoteOrderSource) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if r.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.token))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// ListOrders загружает авторитетный список заказов арендатора.
func (r *RemoteOrderSource) ListOrders(ctx context.Context, tenant string) ([]models.Order, error) {
	req, err := r.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/tenants/%s/orders", r.endpoint, tenant), nil)
	if err != nil {
		return nil, err
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent {
		return []models.Order{}, nil
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orders endpoint returned status %d", res.StatusCode)
	}

	var orders []models.Order
	if err := json.NewDecoder(res.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus фиксирует смену статуса заказа через удалённый сервис.
// Переход считается завершённым только при успешном ответе.
func (r *RemoteOrderSource) UpdateStatus(ctx context.Context, tenant string, orderID int64, status models.OrderStatus) error {
	body, err := json.Marshal(models.StatusUpdate{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to marshal status update: %w", err)
	}

	url := fmt.Sprintf("%s/api/tenants/%s/orders/%d/status", r.endpoint, tenant, orderID)
	req, err := r.newRequest(ctx, http.MethodPatch, url, body)
	if err != nil {
		return err
	}

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send status update: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %d", ErrUnknownOrder, orderID)
	case http.StatusConflict:
		return fmt.Errorf("%w: отклонено сервисом заказов", ErrIllegalTransition)
	default:
		return fmt.Errorf("status endpoint returned status %d", res.StatusCode)
	}
}
