// models содержит доменные сущности briefing-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category — фиксированная контентная вертикаль выпусков.
// Новые категории не появляются на лету: настройки и эпизоды
// партиционированы по этому перечислению.
type Category string

const (
	CategoryNational      Category = "national"
	CategoryInternational Category = "international"
	CategoryBusiness      Category = "business"
	CategorySports        Category = "sports"
	CategoryScience       Category = "science"
)

// Categories — полный список категорий в каноническом порядке.
func Categories() []Category {
	return []Category{
		CategoryNational,
		CategoryInternational,
		CategoryBusiness,
		CategorySports,
		CategoryScience,
	}
}

// ParseCategory валидирует строковое представление категории.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	switch c {
	case CategoryNational, CategoryInternational, CategoryBusiness, CategorySports, CategoryScience:
		return c, nil
	}

	return "", fmt.Errorf("unknown category: %q", value)
}

// DisplayName возвращает человекочитаемое имя категории
// для заголовков эпизодов и текста промпта.
func (c Category) DisplayName() string {
	switch c {
	case CategoryNational:
		return "National News"
	case CategoryInternational:
		return "International News"
	case CategoryBusiness:
		return "Business & Finance"
	case CategorySports:
		return "Sports"
	case CategoryScience:
		return "Science & Technology"
	}

	return string(c)
}

// Edition — утренний либо вечерний выпуск категории за конкретную дату.
type Edition string

const (
	EditionMorning Edition = "morning"
	EditionEvening Edition = "evening"
)

// EditionAt определяет выпуск по локальному времени старта запуска:
// до полудня — утренний, иначе вечерний.
func EditionAt(t time.Time) Edition {
	if t.Hour() < 12 {
		return EditionMorning
	}

	return EditionEvening
}

// Label возвращает отображаемую метку выпуска ("Morning"/"Evening").
func (e Edition) Label() string {
	if e == EditionMorning {
		return "Morning"
	}

	return "Evening"
}

// ShortLabel возвращает метку выпуска для ключей хранилища ("AM"/"PM").
func (e Edition) ShortLabel() string {
	if e == EditionMorning {
		return "AM"
	}

	return "PM"
}

// FeedSource — внешний источник синдикации, привязанный к категории.
// Источник можно выключить, не удаляя его из настроек.
type FeedSource struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// CategorySettings — настройки одной категории.
// Принадлежат Settings Store; пайплайн их только читает.
type CategorySettings struct {
	Category Category
	// Enabled — выключенная категория пропускается при "run all".
	Enabled bool
	// Feeds — упорядоченный список источников; пустой список
	// означает использование каталога по умолчанию.
	Feeds []FeedSource
	// NarratorVoice — идентификатор голоса синтеза для категории.
	NarratorVoice string
	// StoriesPerCategory — максимум историй в одном выпуске.
	StoriesPerCategory int
}

// ScheduleSettings — глобальное расписание автогенерации.
type ScheduleSettings struct {
	// Times — локальное время запусков в формате "HH:MM" (до трёх значений).
	Times []string
	// Timezone — IANA-зона, в которой трактуются Times.
	Timezone string
	// AutoGenerate — выключатель автоматических запусков;
	// на ручные триггеры не влияет.
	AutoGenerate bool
}

// Story — эфемерный элемент ленты, живёт только внутри одного запуска.
type Story struct {
	Title       string
	Summary     string
	SourceName  string
	Link        string
	PublishedAt time.Time
}

// Script — результат генерации текста выпуска.
type Script struct {
	// Title — заголовок эпизода вида "<CategoryName> - <date> <Edition>".
	Title string
	// Text — полный текст наррации без markdown и служебных пометок.
	Text string
}

// Episode — долговечный артефакт одного запуска пайплайна.
//
// Особенности:
//   - ID — UUIDv4;
//   - идентичность слота — (Category, AirDate, Edition): перезапуск
//     заменяет эпизод слота, а не создаёт дубль;
//   - AudioURL пуст, если синтез/загрузка аудио не удались,
//     но скрипт при этом опубликован (деградированный успех);
//   - временные метки — в UTC.
type Episode struct {
	ID           uuid.UUID
	Category     Category
	AirDate      time.Time
	Edition      Edition
	Title        string
	ScriptText   string
	AudioURL     string
	DurationMins int
	IsLive       bool
	CreatedAt    time.Time
	PublishedAt  time.Time
}

// RunOutcome — терминальный статус одного запуска пайплайна.
type RunOutcome string

const (
	// RunSucceeded — эпизод опубликован со скриптом и аудио.
	RunSucceeded RunOutcome = "succeeded"
	// RunSucceededDegraded — синтез аудио не удался,
	// опубликован эпизод только со скриптом.
	RunSucceededDegraded RunOutcome = "succeeded_degraded"
)

// RunResult — итог успешного (в т.ч. деградированного) запуска.
type RunResult struct {
	Outcome RunOutcome
	Episode Episode
	// Stories — сколько историй вошло в выпуск.
	Stories int
	// Elapsed — полное время запуска.
	Elapsed time.Duration
}
