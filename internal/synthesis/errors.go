package synthesis

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey возвращается при отсутствии ключа доступа к бэкенду.
// Запрос к бэкенду в этом случае не выполняется.
var ErrMissingAPIKey = errors.New("не задан ключ доступа к бэкенду синтеза")

// ErrInvalidVoice возвращается для голоса вне поддерживаемого набора
var ErrInvalidVoice = errors.New("голос не поддерживается")

// ErrEmptyText возвращается для пустого текста запроса
var ErrEmptyText = errors.New("текст не должен быть пустым")

// BackendError представляет не-2xx ответ бэкенда синтеза
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("бэкенд синтеза вернул ошибку %d: %s", e.StatusCode, e.Body)
}
