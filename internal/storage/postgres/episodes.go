package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage"
)

const episodeColumns = `id, category, air_date, edition, title, script_text, audio_url, duration_mins, is_live, created_at, published_at`

// PublishEpisode публикует эпизод с upsert по слоту (category, air_date, edition)
// и ротацией live-флага в одной транзакции.
//
// Сериализация:
//   - транзакция берёт pg_advisory_xact_lock по категории, поэтому два
//     конкурентных запуска одной категории ротируют live строго по очереди
//     и не могут оставить два live-эпизода;
//   - повторная публикация в тот же слот перезаписывает его поля,
//     а не создаёт новую строку.
func (s *Storage) PublishEpisode(ctx context.Context, episode models.Episode) (*models.Episode, error) {
	const op = "storage/postgres/PublishEpisode"

	if episode.Category == "" || episode.AirDate.IsZero() || episode.Edition == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback(ctx)

	// Эксклюзив на категорию до конца транзакции.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended('episodes:'||$1::text, 0))`,
		string(episode.Category),
	); err != nil {
		return nil, fmt.Errorf("%s: lock: %w", op, err)
	}

	var audioURL *string
	if episode.AudioURL != "" {
		audioURL = &episode.AudioURL
	}

	id := episode.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	saved := episode
	saved.IsLive = true

	var savedAudio *string
	err = tx.QueryRow(ctx, `
	INSERT INTO episodes (id, category, air_date, edition, title, script_text, audio_url, duration_mins, is_live, created_at, published_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $10)
	ON CONFLICT (category, air_date, edition) DO UPDATE
	SET
	title = EXCLUDED.title,
	script_text = EXCLUDED.script_text,
	audio_url = EXCLUDED.audio_url,
	duration_mins = EXCLUDED.duration_mins,
	is_live = TRUE,
	published_at = EXCLUDED.published_at
	RETURNING id, created_at, published_at, audio_url
	`, id, string(episode.Category), episode.AirDate, string(episode.Edition),
		episode.Title, episode.ScriptText, audioURL, episode.DurationMins,
		episode.CreatedAt.UTC(), episode.PublishedAt.UTC(),
	).Scan(&saved.ID, &saved.CreatedAt, &saved.PublishedAt, &savedAudio)
	if err != nil {
		return nil, fmt.Errorf("%s: upsert: %w", op, err)
	}

	// Демоция всех прочих эпизодов категории в той же транзакции.
	if _, err := tx.Exec(ctx, `
	UPDATE episodes SET is_live = FALSE
	WHERE category = $1 AND is_live AND id <> $2
	`, string(episode.Category), saved.ID); err != nil {
		return nil, fmt.Errorf("%s: demote: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	if savedAudio != nil {
		saved.AudioURL = *savedAudio
	} else {
		saved.AudioURL = ""
	}
	saved.CreatedAt = saved.CreatedAt.UTC()
	saved.PublishedAt = saved.PublishedAt.UTC()

	return &saved, nil
}

// LiveEpisode возвращает live-эпизод категории.
// Если такого нет — storage.ErrNotFound.
func (s *Storage) LiveEpisode(ctx context.Context, category models.Category) (*models.Episode, error) {
	const op = "storage/postgres/LiveEpisode"

	row := s.db.QueryRow(ctx, `
	SELECT `+episodeColumns+`
	FROM episodes
	WHERE category = $1 AND is_live
	`, string(category))

	episode, err := scanEpisode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return episode, nil
}

// LiveEpisodes возвращает live-эпизоды всех категорий.
// Сортировка фиксирована: category ASC.
func (s *Storage) LiveEpisodes(ctx context.Context) ([]models.Episode, error) {
	const op = "storage/postgres/LiveEpisodes"

	rows, err := s.db.Query(ctx, `
	SELECT `+episodeColumns+`
	FROM episodes
	WHERE is_live
	ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var output []models.Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		output = append(output, *episode)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return output, nil
}

// EpisodeByID возвращает эпизод по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
// Некорректный формат id трактуется как «нет такой записи».
func (s *Storage) EpisodeByID(ctx context.Context, id string) (*models.Episode, error) {
	const op = "storage/postgres/EpisodeByID"

	correctID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	row := s.db.QueryRow(ctx, `
	SELECT `+episodeColumns+`
	FROM episodes
	WHERE id = $1
	`, correctID)

	episode, err := scanEpisode(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return episode, nil
}

// scanEpisode читает строку эпизода с нормализацией в UTC.
func scanEpisode(row pgx.Row) (*models.Episode, error) {
	var episode models.Episode
	var category, edition string
	var audioURL *string
	var airDate time.Time

	if err := row.Scan(
		&episode.ID,
		&category,
		&airDate,
		&edition,
		&episode.Title,
		&episode.ScriptText,
		&audioURL,
		&episode.DurationMins,
		&episode.IsLive,
		&episode.CreatedAt,
		&episode.PublishedAt,
	); err != nil {
		return nil, err
	}

	episode.Category = models.Category(category)
	episode.Edition = models.Edition(edition)
	episode.AirDate = airDate
	if audioURL != nil {
		episode.AudioURL = *audioURL
	}
	episode.CreatedAt = episode.CreatedAt.UTC()
	episode.PublishedAt = episode.PublishedAt.UTC()

	return &episode, nil
}
