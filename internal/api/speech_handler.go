package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"vox-ai/internal/job"
	"vox-ai/internal/status"
	"vox-ai/internal/store"
	"vox-ai/internal/synthesis"
	"vox-ai/pkg/models"
)

// SpeechHandler обрабатывает HTTP запросы конвейера генерации речи
type SpeechHandler struct {
	jobService *job.Service
	resolver   *status.Resolver
	synth      synthesis.Synthesizer
	logger     *zap.Logger
}

// NewSpeechHandler создает новый обработчик запросов генерации речи
func NewSpeechHandler(jobService *job.Service, resolver *status.Resolver, synth synthesis.Synthesizer, logger *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		jobService: jobService,
		resolver:   resolver,
		synth:      synth,
		logger:     logger,
	}
}

// HandleGenerate обрабатывает запрос на генерацию речи.
// Ошибки валидации возвращаются синхронно; все ошибки после приема
// задания клиент узнает только через опрос статуса.
func (h *SpeechHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("ошибка чтения тела запроса", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	var req models.SubmitSpeechRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Error("ошибка парсинга запроса генерации", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	if req.UserID == 0 {
		h.writeError(w, http.StatusBadRequest, "user_id обязателен")
		return
	}

	result, err := h.jobService.Submit(r.Context(), req.UserID, req.Text, req.Voice)
	if err != nil {
		if errors.Is(err, synthesis.ErrInvalidVoice) || errors.Is(err, synthesis.ErrEmptyText) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("ошибка приема задания",
			zap.Error(err),
			zap.Int64("user_id", req.UserID))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, result)
}

// HandleStatus обрабатывает опрос статуса задания
func (h *SpeechHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		h.writeError(w, http.StatusBadRequest, "параметр id обязателен")
		return
	}

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID == 0 {
		h.writeError(w, http.StatusBadRequest, "параметр user_id обязателен")
		return
	}

	speechStatus, err := h.resolver.Resolve(r.Context(), jobID, userID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			h.writeError(w, http.StatusNotFound, "задание не найдено")
			return
		}
		h.logger.Error("ошибка получения статуса задания",
			zap.Error(err),
			zap.String("job_id", jobID))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, speechStatus)
}

// HandleVoices возвращает список поддерживаемых голосов бэкенда
func (h *SpeechHandler) HandleVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	voices, err := h.synth.Voices(r.Context())
	if err != nil {
		// Информационный список: при недоступности бэкенда отдаем локальный набор
		h.logger.Warn("ошибка получения голосов от бэкенда, используем локальный набор", zap.Error(err))
		voices = synthesis.SupportedVoices
	}

	h.writeJSON(w, http.StatusOK, map[string][]string{"voices": voices})
}

// writeJSON сериализует ответ в JSON
func (h *SpeechHandler) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("ошибка сериализации ответа", zap.Error(err))
	}
}

// writeError возвращает ошибку в JSON формате
func (h *SpeechHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSON(w, statusCode, map[string]string{"error": message})
}
