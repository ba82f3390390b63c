// service содержит бизнес-логику briefing-сервиса:
// оркестрацию пайплайна генерации выпусков и read-путь live-эпизодов.
package service

import (
	"errors"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/config"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCategory — категория вне фиксированного перечисления.
	// Транспорт: 400.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrCategoryDisabled — категория выключена в настройках.
	// Транспорт: 409.
	ErrCategoryDisabled = errors.New("category disabled")
	// ErrNoContent — все ленты категории не дали ни одной истории.
	// Фатально для запуска; эпизод не создаётся. Транспорт: 422.
	ErrNoContent = errors.New("no stories available")
	// ErrGeneration — сервис генерации текста недоступен или вернул
	// непригодный ответ. Фатально для запуска. Транспорт: 502.
	ErrGeneration = errors.New("script generation failed")
	// ErrPublish — не удалась запись в хранилище эпизодов.
	// Фатально; уже загруженное аудио остаётся для перезаписи
	// следующим успешным запуском. Транспорт: 502.
	ErrPublish = errors.New("publish failed")
)

// Service — оркестратор пайплайна briefing-service.
type Service struct {
	storage storage.Storage
	audio   storage.AudioStorage
	fetcher Aggregator
	scripts ScriptGenerator
	speech  SpeechSynthesizer
	cfg     config.Config
}

// New создает новый экземпляр Service.
func New(
	st storage.Storage,
	audio storage.AudioStorage,
	fetcher Aggregator,
	scripts ScriptGenerator,
	speech SpeechSynthesizer,
	cfg config.Config,
) *Service {
	return &Service{
		storage: st,
		audio:   audio,
		fetcher: fetcher,
		scripts: scripts,
		speech:  speech,
		cfg:     cfg,
	}
}
