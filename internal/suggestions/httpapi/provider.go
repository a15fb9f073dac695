package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"maintenance-system/internal/suggestions"

	"go.uber.org/zap"
)

const (
	similarEndpoint = "/v1/similar-equipment"
	stepsEndpoint   = "/v1/protocol-steps"
	imageEndpoint   = "/v1/step-image"
)

// Provider - внешний сервис подсказок по HTTP/JSON.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

func New(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Provider {
	return &Provider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.Named("suggestions-http"),
	}
}

func (p *Provider) Name() string {
	return "http"
}

func (p *Provider) post(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания POST-запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса для '%s': %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("сервис подсказок для '%s' вернул статус: %s, тело ответа: %s", endpoint, resp.Status, string(bodyBytes))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа '%s': %w", endpoint, err)
	}
	p.logger.Debug("Ответ сервиса подсказок", zap.String("endpoint", endpoint), zap.Int("bytes", len(raw)))
	return raw, nil
}

func (p *Provider) FindSimilarEquipment(ctx context.Context, reference suggestions.EquipmentDescriptor, pool []suggestions.EquipmentDescriptor) ([]uint64, error) {
	raw, err := p.post(ctx, similarEndpoint, similarRequest{Reference: reference, Pool: pool})
	if err != nil {
		return nil, err
	}
	return suggestions.ParseSimilarIDs(string(raw))
}

func (p *Provider) GenerateProtocolSteps(ctx context.Context, equipment suggestions.EquipmentDescriptor) ([]suggestions.GeneratedStep, error) {
	raw, err := p.post(ctx, stepsEndpoint, stepsRequest{Equipment: equipment})
	if err != nil {
		return nil, err
	}
	var resp stepsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON для эндпоинта %s: %w", stepsEndpoint, err)
	}
	return resp.Steps, nil
}

func (p *Provider) GenerateStepImage(ctx context.Context, equipment suggestions.EquipmentDescriptor, stepText string) (string, error) {
	raw, err := p.post(ctx, imageEndpoint, imageRequest{Equipment: equipment, Step: stepText})
	if err != nil {
		return "", err
	}
	var resp imageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("ошибка парсинга JSON для эндпоинта %s: %w", imageEndpoint, err)
	}
	if resp.ImageURL == "" {
		return "", fmt.Errorf("сервис подсказок не вернул imageUrl")
	}
	return resp.ImageURL, nil
}
