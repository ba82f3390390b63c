package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/pkg/log"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage"
)

// LiveEpisode возвращает текущий live-эпизод категории.
//
// Ошибки:
// - ErrNotFound — для категории ещё нет live-эпизода;
// - прочие ошибки стораджа — обёрнутые и прокинутые наверх.
func (s *Service) LiveEpisode(ctx context.Context, category models.Category) (*models.Episode, error) {
	const op = "service/queries/LiveEpisode"

	lg := log.From(ctx)

	episode, err := s.storage.LiveEpisode(ctx, category)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("live_episode_not_found",
				slog.String("op", op),
				slog.String("category", string(category)),
			)

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("live_episode_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return episode, nil
}

// LiveEpisodes возвращает live-эпизоды всех категорий.
// Отсутствие эпизодов — валидный пустой список, не ошибка.
func (s *Service) LiveEpisodes(ctx context.Context) ([]models.Episode, error) {
	const op = "service/queries/LiveEpisodes"

	episodes, err := s.storage.LiveEpisodes(ctx)
	if err != nil {
		log.From(ctx).Error("live_episodes_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return episodes, nil
}

// EpisodeByID возвращает эпизод по идентификатору (аудит/транскрипты).
//
// Ошибки:
// - ErrNotFound — если запись отсутствует (маппинг storage.ErrNotFound).
func (s *Service) EpisodeByID(ctx context.Context, id string) (*models.Episode, error) {
	const op = "service/queries/EpisodeByID"

	episode, err := s.storage.EpisodeByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return episode, nil
}
