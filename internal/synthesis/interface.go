package synthesis

import "context"

// Synthesizer представляет интерфейс для бэкенда синтеза речи
type Synthesizer interface {
	// Synthesize преобразует текст в аудио и возвращает ключ готового файла
	Synthesize(ctx context.Context, text, voice string, userID string) (string, error)
	// Voices возвращает список поддерживаемых голосов бэкенда
	Voices(ctx context.Context) ([]string, error)
	// HealthCheck проверяет доступность бэкенда
	HealthCheck(ctx context.Context) error
}
