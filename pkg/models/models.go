package models

import (
	"time"
)

// Constants для статусов заданий генерации речи
const (
	JobStatusPending = "pending"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// ServiceSeedVC — единственный поддерживаемый сервис синтеза речи
const ServiceSeedVC = "seed-vc"

// CreditCostPerJob — фиксированная стоимость одного успешного задания в кредитах
const CreditCostPerJob = 50

// Job представляет одно задание генерации речи и его жизненный цикл
type Job struct {
	ID            string     `json:"id" db:"id"`
	UserID        int64      `json:"user_id" db:"user_id"`
	Text          string     `json:"text" db:"text"`
	Voice         string     `json:"voice" db:"voice"`
	Service       string     `json:"service" db:"service"`               // сервис синтеза (seed-vc)
	Status        string     `json:"status" db:"status"`                 // pending, done, failed
	AudioKey      *string    `json:"audio_key" db:"audio_key"`           // ключ аудио файла от бэкенда синтеза
	FailureReason *string    `json:"failure_reason" db:"failure_reason"` // причина последней ошибки
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at" db:"completed_at"` // время перехода в терминальный статус
}

// User представляет пользователя в системе
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Credits   int       `json:"credits" db:"credits"` // баланс кредитов на генерацию
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SubmitSpeechRequest представляет запрос на генерацию речи
type SubmitSpeechRequest struct {
	UserID int64  `json:"user_id" validate:"required"`
	Text   string `json:"text" validate:"required"`
	Voice  string `json:"voice" validate:"required"`
}

// SubmitResult представляет результат постановки задания в очередь
type SubmitResult struct {
	JobID     string `json:"job_id"`
	Throttled bool   `json:"throttled"` // превышен лимит заданий за последнюю минуту
}

// SpeechStatus представляет статус задания для опрашивающего клиента.
// Клиент отличает "еще в работе" от "готово" только по наличию audio_url.
type SpeechStatus struct {
	Success  bool    `json:"success"`
	AudioURL *string `json:"audio_url"`
}

// IsValidStatus проверяет корректность статуса задания
func IsValidStatus(status string) bool {
	switch status {
	case JobStatusPending, JobStatusDone, JobStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminalStatus проверяет, является ли статус терминальным
func IsTerminalStatus(status string) bool {
	return status == JobStatusDone || status == JobStatusFailed
}
