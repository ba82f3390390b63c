// scheduler запускает автогенерацию выпусков по глобальному расписанию.
// Расписание читается из Settings Store на каждом тике: изменения,
// внесённые админ-коллаборатором, подхватываются без рестарта.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/pkg/log"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage"
)

// Runner — запуск пайплайна по всем включённым категориям.
type Runner interface {
	RunAll(ctx context.Context) []service.RunStatus
}

// Scheduler — минутный цикл проверки расписания автогенерации.
type Scheduler struct {
	runner   Runner
	settings storage.SettingsStorage
	tick     time.Duration

	// lastFired — ключ "дата HH:MM" последнего срабатывания,
	// защита от повторного запуска в пределах одной минуты.
	lastFired string
}

// New создаёт планировщик с периодом проверки tick.
func New(runner Runner, settings storage.SettingsStorage, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Minute
	}

	return &Scheduler{
		runner:   runner,
		settings: settings,
		tick:     tick,
	}
}

// Run блокирующе крутит цикл проверки до отмены ctx.
// Срабатывание: auto_generate включён и локальное время в настроенной
// IANA-зоне совпало (с точностью до минуты) с одним из времён расписания.
// На ручные триггеры расписание не влияет.
func (s *Scheduler) Run(ctx context.Context) {
	const op = "scheduler/Run"

	lg := log.From(ctx)
	lg.Info("scheduler_start",
		slog.String("op", op),
		slog.Duration("tick", s.tick),
	)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("scheduler_stop", slog.String("op", op))
			return
		case <-ticker.C:
			s.checkOnce(ctx, time.Now())
		}
	}
}

// checkOnce — одна проверка расписания против момента now.
func (s *Scheduler) checkOnce(ctx context.Context, now time.Time) {
	const op = "scheduler/checkOnce"

	lg := log.From(ctx)

	schedule, err := s.settings.ScheduleSettings(ctx)
	if err != nil {
		lg.Warn("schedule_read_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return
	}

	if !schedule.AutoGenerate {
		return
	}

	loc, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		lg.Warn("schedule_bad_timezone",
			slog.String("op", op),
			slog.String("timezone", schedule.Timezone),
			slog.String("err", err.Error()),
		)
		loc = time.UTC
	}

	local := now.In(loc)
	current := local.Format("15:04")

	matched := false
	for _, t := range schedule.Times {
		if normalizeTime(t) == current {
			matched = true
			break
		}
	}

	if !matched {
		return
	}

	firedKey := local.Format("2006-01-02 15:04")
	if firedKey == s.lastFired {
		return
	}
	s.lastFired = firedKey

	lg.Info("scheduled_run_start",
		slog.String("op", op),
		slog.String("slot", firedKey),
		slog.String("timezone", schedule.Timezone),
	)

	statuses := s.runner.RunAll(ctx)

	var ok, failed int
	for _, st := range statuses {
		if st.Err != nil {
			failed++
			continue
		}
		ok++
	}

	lg.Info("scheduled_run_done",
		slog.String("op", op),
		slog.String("slot", firedKey),
		slog.Int("ok", ok),
		slog.Int("failed", failed),
	)
}

// normalizeTime приводит "6:00"/"06:00:00" к виду "06:00".
func normalizeTime(value string) string {
	t, err := time.Parse("15:04", value)
	if err != nil {
		if t2, err2 := time.Parse("15:04:05", value); err2 == nil {
			return t2.Format("15:04")
		}
		if t3, err3 := time.Parse("3:04", value); err3 == nil {
			return t3.Format("15:04")
		}
		return value
	}

	return t.Format("15:04")
}
