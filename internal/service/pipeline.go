package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/metrics"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/pkg/log"
)

// Стадии запуска — для логов и метрик.
const (
	stageFetching     = "fetching"
	stageSelecting    = "selecting"
	stageScripting    = "scripting"
	stageSynthesizing = "synthesizing"
	stagePublishing   = "publishing"
)

// Слов в минуту наррации — основа оценки длительности.
const wordsPerMinute = 150

// RunCategory выполняет один запуск пайплайна для категории:
// Fetching -> Selecting -> Scripting -> Synthesizing -> Publishing.
//
// Контракт:
//   - весь запуск ограничен жёстким wall-clock таймаутом из конфига;
//   - сбой синтеза/загрузки аудио не фатален: публикуется эпизод
//     только со скриптом (RunSucceededDegraded);
//   - ноль пригодных историй — ErrNoContent, эпизод не создаётся;
//   - сбой генерации скрипта — ErrGeneration;
//   - сбой записи эпизода — ErrPublish; уже загруженное аудио остаётся
//     в хранилище и перезапишется следующим успешным запуском слота.
func (s *Service) RunCategory(ctx context.Context, category models.Category) (*models.RunResult, error) {
	const op = "service/pipeline/RunCategory"

	started := time.Now()

	lg := log.From(ctx).With(slog.String("category", string(category)))
	ctx = log.Into(ctx, lg)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Pipeline.RunTimeout)
	defer cancel()

	settings, err := s.storage.CategorySettings(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: settings: %w", op, err)
	}

	if !settings.Enabled {
		return nil, fmt.Errorf("%s: %w", op, ErrCategoryDisabled)
	}

	schedule, err := s.storage.ScheduleSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: schedule: %w", op, err)
	}

	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)
	edition := models.EditionAt(now)
	airDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	lg.Info("pipeline_start",
		slog.String("op", op),
		slog.String("edition", string(edition)),
		slog.String("air_date", airDate.Format("2006-01-02")),
	)

	// Fetching.
	stories := s.fetchStories(ctx, category, settings)

	// Selecting.
	selStart := time.Now()
	selected := selectStories(stories, settings.StoriesPerCategory)
	metrics.ObserveStage(string(category), stageSelecting, selStart)

	if len(selected) == 0 {
		metrics.Runs.WithLabelValues(string(category), "no_content").Inc()
		lg.Warn("pipeline_no_content",
			slog.String("op", op),
			slog.Int("raw_items", len(stories)),
		)

		return nil, fmt.Errorf("%s: %w", op, ErrNoContent)
	}

	lg.Info("stories_selected",
		slog.String("op", op),
		slog.Int("raw_items", len(stories)),
		slog.Int("selected", len(selected)),
	)

	// Scripting.
	genStart := time.Now()
	script, err := s.scripts.Generate(ctx, ScriptRequest{
		Category: category,
		Edition:  edition,
		Date:     now,
		Stories:  selected,
	})
	metrics.ObserveStage(string(category), stageScripting, genStart)

	if err != nil {
		outcome := "generation_error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		metrics.Runs.WithLabelValues(string(category), outcome).Inc()

		lg.Error("script_generation_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w: %w", op, ErrGeneration, err)
	}

	lg.Info("script_generated",
		slog.String("op", op),
		slog.String("title", script.Title),
		slog.Int("chars", len(script.Text)),
	)

	// Synthesizing: сбой деградирует запуск, но не прерывает его.
	voice := settings.NarratorVoice
	if voice == "" {
		voice = s.cfg.TTS.DefaultVoice
	}

	synStart := time.Now()
	synthesis, synErr := s.speech.Synthesize(ctx, script.Text, voice)
	metrics.ObserveStage(string(category), stageSynthesizing, synStart)

	if synErr != nil {
		lg.Warn("synthesis_failed_degrading",
			slog.String("op", op),
			slog.String("voice", voice),
			slog.String("err", synErr.Error()),
		)
	}

	// Publishing.
	pubStart := time.Now()

	audioURL := ""
	durationSecs := estimateDurationSecs(script.Text)

	if synErr == nil && synthesis != nil && len(synthesis.Audio) > 0 {
		durationSecs = synthesis.DurationSeconds

		key := audioKey(category, airDate, edition)
		url, upErr := s.audio.UploadAudio(ctx, key, synthesis.Audio)
		if upErr != nil {
			// Аудио не прошло — публикуем только скрипт.
			lg.Warn("audio_upload_failed_degrading",
				slog.String("op", op),
				slog.String("key", key),
				slog.String("err", upErr.Error()),
			)
		} else {
			audioURL = url
			lg.Info("audio_uploaded",
				slog.String("op", op),
				slog.String("key", key),
				slog.Int("bytes", len(synthesis.Audio)),
			)
		}
	}

	nowUTC := time.Now().UTC()
	episode := models.Episode{
		Category:     category,
		AirDate:      airDate,
		Edition:      edition,
		Title:        script.Title,
		ScriptText:   script.Text,
		AudioURL:     audioURL,
		DurationMins: (durationSecs + 59) / 60,
		CreatedAt:    nowUTC,
		PublishedAt:  nowUTC,
	}

	saved, err := s.storage.PublishEpisode(ctx, episode)
	metrics.ObserveStage(string(category), stagePublishing, pubStart)

	if err != nil {
		outcome := "publish_error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		metrics.Runs.WithLabelValues(string(category), outcome).Inc()

		lg.Error("publish_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w: %w", op, ErrPublish, err)
	}

	result := models.RunResult{
		Outcome: models.RunSucceeded,
		Episode: *saved,
		Stories: len(selected),
		Elapsed: time.Since(started),
	}
	if saved.AudioURL == "" {
		result.Outcome = models.RunSucceededDegraded
	}

	metrics.Runs.WithLabelValues(string(category), string(result.Outcome)).Inc()

	lg.Info("pipeline_ok",
		slog.String("op", op),
		slog.String("episode_id", saved.ID.String()),
		slog.String("outcome", string(result.Outcome)),
		slog.Duration("elapsed", result.Elapsed),
	)

	return &result, nil
}

// fetchStories опрашивает ленты категории и собирает все успешные результаты.
// Ошибки отдельных лент логируются и пропускаются; пустой итог — не ошибка
// (условие "нет историй" решает слой выше).
func (s *Service) fetchStories(ctx context.Context, category models.Category, settings *models.CategorySettings) []models.Story {
	const op = "service/pipeline/fetchStories"

	start := time.Now()
	defer metrics.ObserveStage(string(category), stageFetching, start)

	lg := log.From(ctx)

	feeds := enabledFeeds(settings.Feeds)
	if len(feeds) == 0 {
		feeds = enabledFeeds(models.DefaultFeeds(category))
	}

	var stories []models.Story
	var feedsOK, feedsErr int

	for result := range s.fetcher.FetchMany(ctx, feeds) {
		if result.Err != nil {
			feedsErr++
			metrics.FeedErrors.WithLabelValues(string(category)).Inc()
			lg.Warn("feed_fetch_error",
				slog.String("op", op),
				slog.String("feed", result.Feed.Name),
				slog.String("url", result.Feed.URL),
				slog.String("err", result.Err.Error()),
			)
			continue
		}

		stories = append(stories, result.Items...)
		feedsOK++
	}

	lg.Info("feeds_fetched",
		slog.String("op", op),
		slog.Int("feeds_ok", feedsOK),
		slog.Int("feeds_err", feedsErr),
		slog.Int("items", len(stories)),
	)

	return stories
}

// RunStatus — итог запуска одной категории внутри "run all".
type RunStatus struct {
	Category models.Category
	Result   *models.RunResult
	Err      error
}

// RunAll последовательно прогоняет пайплайн по всем включённым категориям.
// Последовательность ограничивает одновременную нагрузку на внешние
// сервисы; выключенные категории пропускаются без ошибки.
func (s *Service) RunAll(ctx context.Context) []RunStatus {
	const op = "service/pipeline/RunAll"

	lg := log.From(ctx)

	var output []RunStatus
	for _, category := range models.Categories() {
		result, err := s.RunCategory(ctx, category)
		if errors.Is(err, ErrCategoryDisabled) {
			lg.Info("category_skipped",
				slog.String("op", op),
				slog.String("category", string(category)),
			)
			continue
		}

		output = append(output, RunStatus{Category: category, Result: result, Err: err})

		if ctx.Err() != nil {
			break
		}
	}

	return output
}

// audioKey — детерминированный ключ объекта аудио для слота выпуска.
func audioKey(category models.Category, airDate time.Time, edition models.Edition) string {
	return fmt.Sprintf("news/%s-%s-%s.mp3", category, airDate.Format("2006-01-02"), edition.ShortLabel())
}

// enabledFeeds отфильтровывает выключенные источники, сохраняя порядок.
func enabledFeeds(feeds []models.FeedSource) []models.FeedSource {
	output := make([]models.FeedSource, 0, len(feeds))
	for _, feed := range feeds {
		if feed.Enabled {
			output = append(output, feed)
		}
	}

	return output
}

// estimateDurationSecs оценивает длительность наррации по числу слов.
func estimateDurationSecs(text string) int {
	words := len(strings.Fields(text))

	return (words*60 + wordsPerMinute - 1) / wordsPerMinute
}
