package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SeedVCClient представляет клиент для работы с бэкендом синтеза seed-vc
type SeedVCClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSeedVCClient создает новый клиент seed-vc
func NewSeedVCClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *SeedVCClient {
	return &SeedVCClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout, // Генерация аудио может занимать десятки секунд
		},
		logger: logger,
	}
}

// convertRequest представляет запрос на генерацию речи
type convertRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	UserID string `json:"user_id"`
}

// convertResponse представляет ответ бэкенда на генерацию речи
type convertResponse struct {
	AudioURL  string `json:"audio_url"`
	LocalPath string `json:"local_path,omitempty"`
}

// voicesResponse представляет ответ бэкенда со списком голосов
type voicesResponse struct {
	Voices []string `json:"voices"`
}

// Synthesize преобразует текст в аудио через seed-vc и возвращает ключ файла
func (c *SeedVCClient) Synthesize(ctx context.Context, text, voice string, userID string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if text == "" {
		return "", ErrEmptyText
	}
	if !IsSupportedVoice(voice) {
		return "", fmt.Errorf("%w: %s", ErrInvalidVoice, voice)
	}

	reqBody, err := json.Marshal(convertRequest{
		Text:   text,
		Voice:  voice,
		UserID: userID,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/convert", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Info("отправляем запрос на генерацию речи",
		zap.String("voice", voice),
		zap.String("user_id", userID),
		zap.Int("text_length", len(text)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	// Не-2xx ответ — ошибка попытки, тело сохраняется дословно
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &BackendError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var response convertResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа: %w, тело: %s", err, string(body))
	}

	if response.AudioURL == "" {
		return "", fmt.Errorf("бэкенд синтеза не вернул audio_url, тело: %s", string(body))
	}

	c.logger.Info("аудио успешно сгенерировано",
		zap.String("voice", voice),
		zap.String("user_id", userID),
		zap.String("audio_key", response.AudioURL))

	return response.AudioURL, nil
}

// Voices возвращает список поддерживаемых голосов бэкенда
func (c *SeedVCClient) Voices(ctx context.Context) ([]string, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var response voicesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("ошибка парсинга ответа: %w", err)
	}

	return response.Voices, nil
}

// HealthCheck проверяет доступность бэкенда синтеза
func (c *SeedVCClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("нездоровый статус бэкенда синтеза: %d", resp.StatusCode)
	}

	return nil
}
