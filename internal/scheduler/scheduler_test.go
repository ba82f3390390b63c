package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
)

// fakeRunner считает запуски пайплайна.
type fakeRunner struct {
	mu   sync.Mutex
	runs int
}

func (f *fakeRunner) RunAll(_ context.Context) []service.RunStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	return nil
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

// fakeSettings отдаёт фиксированное расписание.
type fakeSettings struct {
	schedule models.ScheduleSettings
	err      error
}

func (f *fakeSettings) CategorySettings(_ context.Context, category models.Category) (*models.CategorySettings, error) {
	return &models.CategorySettings{Category: category, Enabled: true, StoriesPerCategory: 5}, nil
}

func (f *fakeSettings) ScheduleSettings(_ context.Context) (*models.ScheduleSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := f.schedule
	return &copied, nil
}

// at — момент времени в UTC для проверок расписания.
func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 30, hour, minute, 0, 0, time.UTC)
}

func TestCheckOnce_FiresOnMatch(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	settings := &fakeSettings{schedule: models.ScheduleSettings{
		Times:        []string{"06:00", "12:00", "18:00"},
		Timezone:     "UTC",
		AutoGenerate: true,
	}}
	s := New(runner, settings, time.Minute)

	s.checkOnce(context.Background(), at(12, 0))
	require.Equal(t, 1, runner.count())

	// Несовпадающая минута не запускает пайплайн.
	s.checkOnce(context.Background(), at(12, 1))
	require.Equal(t, 1, runner.count())
}

func TestCheckOnce_OncePerSlot(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	settings := &fakeSettings{schedule: models.ScheduleSettings{
		Times:        []string{"06:00"},
		Timezone:     "UTC",
		AutoGenerate: true,
	}}
	s := New(runner, settings, time.Second)

	// Несколько тиков в пределах одной минуты — один запуск.
	s.checkOnce(context.Background(), at(6, 0))
	s.checkOnce(context.Background(), at(6, 0).Add(15*time.Second))
	s.checkOnce(context.Background(), at(6, 0).Add(45*time.Second))
	require.Equal(t, 1, runner.count())

	// Тот же слот на следующий день срабатывает снова.
	s.checkOnce(context.Background(), at(6, 0).Add(24*time.Hour))
	require.Equal(t, 2, runner.count())
}

func TestCheckOnce_AutoGenerateOff(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	settings := &fakeSettings{schedule: models.ScheduleSettings{
		Times:        []string{"06:00"},
		Timezone:     "UTC",
		AutoGenerate: false,
	}}
	s := New(runner, settings, time.Minute)

	s.checkOnce(context.Background(), at(6, 0))
	require.Equal(t, 0, runner.count())
}

func TestCheckOnce_TimezoneAware(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	settings := &fakeSettings{schedule: models.ScheduleSettings{
		Times:        []string{"06:00"},
		Timezone:     "America/New_York",
		AutoGenerate: true,
	}}
	s := New(runner, settings, time.Minute)

	// 10:00 UTC = 06:00 America/New_York (летнее время).
	s.checkOnce(context.Background(), at(10, 0))
	require.Equal(t, 1, runner.count())

	// 06:00 UTC — не локальные 06:00.
	s.checkOnce(context.Background(), at(6, 0))
	require.Equal(t, 1, runner.count())
}

func TestCheckOnce_SettingsErrorSkipsTick(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	settings := &fakeSettings{err: errors.New("db down")}
	s := New(runner, settings, time.Minute)

	s.checkOnce(context.Background(), at(6, 0))
	require.Equal(t, 0, runner.count())
}

func Test_normalizeTime(t *testing.T) {
	t.Parallel()

	require.Equal(t, "06:00", normalizeTime("06:00"))
	require.Equal(t, "06:00", normalizeTime("6:00"))
	require.Equal(t, "18:30", normalizeTime("18:30:00"))
	require.Equal(t, "garbage", normalizeTime("garbage"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	settings := &fakeSettings{schedule: models.ScheduleSettings{Timezone: "UTC"}}
	s := New(runner, settings, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}
