// storage определяет контракты доступа к хранилищам для briefing-service.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — некорректные входные данные операции.
	ErrInvalidArgument = errors.New("invalid argument")
)

// EpisodeStorage описывает операции над сущностью models.Episode.
type EpisodeStorage interface {
	// PublishEpisode публикует эпизод: upsert по слоту (category, air_date,
	// edition) и атомарная ротация live-флага внутри той же единицы работы —
	// после возврата ровно один эпизод категории имеет is_live = true.
	// Возвращает сохранённый эпизод (с id и created_at слота).
	PublishEpisode(ctx context.Context, episode models.Episode) (*models.Episode, error)
	// LiveEpisode возвращает текущий live-эпизод категории.
	// Если такого нет — ErrNotFound.
	LiveEpisode(ctx context.Context, category models.Category) (*models.Episode, error)
	// LiveEpisodes возвращает live-эпизоды всех категорий,
	// отсортированные по категории.
	LiveEpisodes(ctx context.Context) ([]models.Episode, error)
	// EpisodeByID возвращает эпизод по идентификатору (для аудита/транскриптов).
	// Если запись не найдена — ErrNotFound.
	EpisodeByID(ctx context.Context, id string) (*models.Episode, error)
}

// SettingsStorage описывает read-only доступ пайплайна к настройкам.
// Запись настроек принадлежит внешнему админ-коллаборатору.
type SettingsStorage interface {
	// CategorySettings возвращает настройки категории.
	// Отсутствие строки — не ошибка: возвращаются значения по умолчанию.
	CategorySettings(ctx context.Context, category models.Category) (*models.CategorySettings, error)
	// ScheduleSettings возвращает глобальное расписание автогенерации.
	ScheduleSettings(ctx context.Context) (*models.ScheduleSettings, error)
}

// Storage задаёт контракт доступа к БД для briefing-сервиса.
type Storage interface {
	EpisodeStorage
	SettingsStorage
	Close()
}

// AudioStorage описывает загрузку аудио в объектное хранилище.
type AudioStorage interface {
	// UploadAudio кладёт аудио по детерминированному ключу с перезаписью
	// и возвращает публичный URL объекта.
	UploadAudio(ctx context.Context, key string, data []byte) (string, error)
}
