package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
)

// Значения по умолчанию при отсутствии строки настроек.
const (
	defaultStoriesPerCategory = 5
	defaultTimezone           = "America/New_York"
)

func defaultScheduleTimes() []string {
	return []string{"06:00", "12:00", "18:00"}
}

// CategorySettings возвращает настройки категории.
//
// Особенности:
//   - отсутствие строки — не ошибка: категория считается включённой
//     с дефолтным числом историй и пустым списком лент (каталог
//     по умолчанию подставляет слой выше);
//   - поле feeds хранится как jsonb и валидируется при чтении:
//     битый JSON не роняет запуск, а трактуется как пустой список.
func (s *Storage) CategorySettings(ctx context.Context, category models.Category) (*models.CategorySettings, error) {
	const op = "storage/postgres/CategorySettings"

	settings := models.CategorySettings{
		Category:           category,
		Enabled:            true,
		StoriesPerCategory: defaultStoriesPerCategory,
	}

	var feedsRaw []byte
	err := s.db.QueryRow(ctx, `
	SELECT enabled, feeds, narrator_voice, stories_per_category
	FROM category_settings
	WHERE category = $1
	`, string(category)).Scan(
		&settings.Enabled,
		&feedsRaw,
		&settings.NarratorVoice,
		&settings.StoriesPerCategory,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &settings, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(feedsRaw) > 0 {
		var feeds []models.FeedSource
		if jsonErr := json.Unmarshal(feedsRaw, &feeds); jsonErr == nil {
			settings.Feeds = feeds
		}
	}

	if settings.StoriesPerCategory <= 0 {
		settings.StoriesPerCategory = defaultStoriesPerCategory
	}

	return &settings, nil
}

// ScheduleSettings возвращает глобальное расписание автогенерации.
// Отсутствие строки — дефолтное расписание с выключенной автогенерацией.
func (s *Storage) ScheduleSettings(ctx context.Context) (*models.ScheduleSettings, error) {
	const op = "storage/postgres/ScheduleSettings"

	schedule := models.ScheduleSettings{
		Times:        defaultScheduleTimes(),
		Timezone:     defaultTimezone,
		AutoGenerate: false,
	}

	var times []string
	err := s.db.QueryRow(ctx, `
	SELECT generation_times, timezone, auto_generate
	FROM schedule_settings
	WHERE id = 1
	`).Scan(&times, &schedule.Timezone, &schedule.AutoGenerate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &schedule, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(times) > 0 {
		schedule.Times = times
	}
	if schedule.Timezone == "" {
		schedule.Timezone = defaultTimezone
	}

	return &schedule, nil
}
