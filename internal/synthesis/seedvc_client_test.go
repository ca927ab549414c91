package synthesis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(baseURL string) *SeedVCClient {
	return NewSeedVCClient(baseURL, "test_key", 5*time.Second, zap.NewNop())
}

func TestNewSeedVCClient(t *testing.T) {
	client := newTestClient("http://localhost:8000")

	if client == nil {
		t.Fatal("клиент не должен быть nil")
	}

	if client.baseURL != "http://localhost:8000" {
		t.Errorf("ожидался baseURL 'http://localhost:8000', получен '%s'", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("httpClient не должен быть nil")
	}
}

func TestSynthesize_MissingAPIKey(t *testing.T) {
	client := NewSeedVCClient("http://localhost:8000", "", 5*time.Second, zap.NewNop())

	// Без ключа запрос к бэкенду не выполняется
	_, err := client.Synthesize(context.Background(), "hello", "echo", "42")

	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("ожидалась ошибка ErrMissingAPIKey, получена '%v'", err)
	}
}

func TestSynthesize_InvalidVoice(t *testing.T) {
	client := newTestClient("http://localhost:8000")

	_, err := client.Synthesize(context.Background(), "hello", "robot", "42")

	if !errors.Is(err, ErrInvalidVoice) {
		t.Errorf("ожидалась ошибка ErrInvalidVoice, получена '%v'", err)
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	client := newTestClient("http://localhost:8000")

	_, err := client.Synthesize(context.Background(), "", "echo", "42")

	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("ожидалась ошибка ErrEmptyText, получена '%v'", err)
	}
}

func TestSynthesize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convert" {
			t.Errorf("ожидался путь '/convert', получен '%s'", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test_key" {
			t.Errorf("неверный заголовок авторизации: '%s'", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"audio_url": "/audio/42/abc.wav"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	audioKey, err := client.Synthesize(context.Background(), "hello world", "echo", "42")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if audioKey != "/audio/42/abc.wav" {
		t.Errorf("ожидался ключ '/audio/42/abc.wav', получен '%s'", audioKey)
	}
}

func TestSynthesize_BackendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Synthesize(context.Background(), "hello", "echo", "42")
	if err == nil {
		t.Fatal("ожидалась ошибка для не-2xx ответа")
	}

	// Статус и тело ответа сохраняются дословно
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("ожидалась BackendError, получена '%v'", err)
	}
	if backendErr.StatusCode != http.StatusBadGateway {
		t.Errorf("ожидался статус 502, получен %d", backendErr.StatusCode)
	}
	if backendErr.Body != "upstream unavailable" {
		t.Errorf("ожидалось тело 'upstream unavailable', получено '%s'", backendErr.Body)
	}
}

func TestSynthesize_BackendUnreachable(t *testing.T) {
	// Несуществующий сервер — транспортная ошибка
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.Synthesize(context.Background(), "hello", "echo", "42")
	if err == nil {
		t.Error("ожидалась ошибка при недоступном бэкенде")
	}
}

func TestSynthesize_MissingAudioURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Synthesize(context.Background(), "hello", "echo", "42")
	if err == nil {
		t.Error("ожидалась ошибка для ответа без audio_url")
	}
}

func TestVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voices" {
			t.Errorf("ожидался путь '/voices', получен '%s'", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"voices": ["echo", "alloy", "fable", "onyx", "nova", "shimmer"]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	voices, err := client.Voices(context.Background())
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(voices) != 6 {
		t.Errorf("ожидалось 6 голосов, получено %d", len(voices))
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("ожидался путь '/health', получен '%s'", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("неожиданная ошибка: %v", err)
	}
}

func TestHealthCheck_Unavailable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	// Тест с несуществующим сервером должен вернуть ошибку
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Error("ожидалась ошибка при проверке несуществующего сервера")
	}
}

func TestIsSupportedVoice(t *testing.T) {
	for _, voice := range SupportedVoices {
		if !IsSupportedVoice(voice) {
			t.Errorf("голос '%s' должен поддерживаться", voice)
		}
	}

	if IsSupportedVoice("robot") {
		t.Error("голос 'robot' не должен поддерживаться")
	}
	if IsSupportedVoice("") {
		t.Error("пустой голос не должен поддерживаться")
	}
}
