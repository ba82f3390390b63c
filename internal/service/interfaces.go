package service

import (
	"context"
	"time"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
)

// Aggregator описывает абстракцию источника историй (RSS/Atom и т.п.),
// который конкурентно опрашивает ленты категории и возвращает доменные объекты.
//
// Требования к реализации:
// 1) На каждую ленту отправляется ровно один FetchResult, после чего канал
// закрывается; порядок результатов не гарантируется.
// 2) Ошибка одной ленты не должна влиять на остальные: изоляция на уровне
// результата (Err != nil), без общего сбоя.
// 3) Каждая лента ограничена собственным таймаутом; реализация обязана
// уважать ctx (отмена/таймауты).
type Aggregator interface {
	FetchMany(ctx context.Context, feeds []models.FeedSource) <-chan FetchResult
}

// FetchResult — результат загрузки одной ленты.
// Если Err != nil, Items может быть неполным или пустым.
type FetchResult struct {
	Feed  models.FeedSource
	Items []models.Story
	Err   error
}

// ScriptRequest — вход генерации текста выпуска.
type ScriptRequest struct {
	Category models.Category
	Edition  models.Edition
	// Date — локальная дата выпуска (для приветствия и заголовка).
	Date    time.Time
	Stories []models.Story
}

// ScriptGenerator описывает вызов внешнего сервиса генерации текста.
// Пустой результат — ошибка реализации, а не валидный ответ.
type ScriptGenerator interface {
	Generate(ctx context.Context, req ScriptRequest) (*models.Script, error)
}

// SynthesisResult — результат синтеза речи.
type SynthesisResult struct {
	Audio []byte
	// DurationSeconds — оценка длительности по числу слов (~150 слов/мин).
	// Приближение, не измерение реального аудиопотока.
	DurationSeconds int
}

// SpeechSynthesizer описывает вызов внешнего сервиса синтеза речи.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice string) (*SynthesisResult, error)
}
