package service

import (
	"strings"
	"unicode"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
)

// Длина префикса нормализованного заголовка, по которому считаются дубли.
const dedupKeyLen = 50

// selectStories сводит сырой список историй к выпуску:
// стабильная дедупликация по нормализованному заголовку
// (первое вхождение побеждает, исходный порядок сохраняется)
// и усечение до limit элементов.
//
// Если уникальных историй меньше limit — возвращаются все:
// короткий выпуск лучше несостоявшегося.
func selectStories(stories []models.Story, limit int) []models.Story {
	if limit <= 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(stories))
	output := make([]models.Story, 0, limit)

	for _, story := range stories {
		key := dedupKey(story.Title)
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		output = append(output, story)
		if len(output) == limit {
			break
		}
	}

	return output
}

// dedupKey нормализует заголовок: нижний регистр, только буквы/цифры,
// префикс фиксированной длины.
func dedupKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}

		if b.Len() >= dedupKeyLen {
			break
		}
	}

	return b.String()
}
