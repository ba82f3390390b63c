// rss реализует service.Aggregator поверх RSS/Atom-лент.
// Параллелизм ограничен семафором maxConc, каждая лента — собственным
// таймаутом. HTTP-клиент настраивается извне (таймауты, прокси и т.д.).
package rss

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
)

// Верхняя граница длины резюме истории.
const maxSummaryLen = 500

const userAgent = "briefing-service/1.0 News Aggregator"

// Fetcher конкурентно загружает и парсит ленты категории.
type Fetcher struct {
	client *http.Client
	parser *gofeed.Parser
	// feedTimeout — лимит загрузки одной ленты.
	feedTimeout time.Duration
	// itemsPerFeed — сколько верхних записей берём из каждой ленты.
	itemsPerFeed int
	maxConc      int
}

// New создаёт новый RSS-фетчер.
func New(client *http.Client, feedTimeout time.Duration, itemsPerFeed, maxConcurrent int) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	if feedTimeout <= 0 {
		feedTimeout = 10 * time.Second
	}

	if itemsPerFeed <= 0 {
		itemsPerFeed = 10
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 6
	}

	return &Fetcher{
		client:       client,
		parser:       gofeed.NewParser(),
		feedTimeout:  feedTimeout,
		itemsPerFeed: itemsPerFeed,
		maxConc:      maxConcurrent,
	}
}

// FetchMany загружает несколько лент конкурентно и отдаёт результаты в канал.
// Канал закрывается после обработки всех лент. Медленная или упавшая лента
// не блокирует остальные: каждая ограничена feedTimeout.
func (f *Fetcher) FetchMany(ctx context.Context, feeds []models.FeedSource) <-chan service.FetchResult {
	output := make(chan service.FetchResult)

	go func() {
		defer close(output)

		sem := make(chan struct{}, f.maxConc)

		for _, src := range feeds {
			select {
			case <-ctx.Done():
				return
			default:
			}

			feed := src
			sem <- struct{}{}

			go func() {
				defer func() {
					<-sem
				}()

				items, err := f.fetchOne(ctx, feed)

				output <- service.FetchResult{Feed: feed, Items: items, Err: err}
			}()
		}

		for i := 0; i < cap(sem); i++ {
			sem <- struct{}{}
		}
	}()

	return output
}

// fetchOne загружает и парсит одну ленту под собственным таймаутом.
func (f *Fetcher) fetchOne(ctx context.Context, feed models.FeedSource) ([]models.Story, error) {
	const op = "rss/fetchOne"

	ctx, cancel := context.WithTimeout(ctx, f.feedTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", op, err)
	}

	items := parsed.Items
	if len(items) > f.itemsPerFeed {
		items = items[:f.itemsPerFeed]
	}

	var output []models.Story
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		published := time.Time{}
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}

		output = append(output, models.Story{
			Title:       title,
			Summary:     cleanSummary(firstNonEmpty(item.Description, item.Content)),
			SourceName:  feed.Name,
			Link:        strings.TrimSpace(item.Link),
			PublishedAt: published,
		})
	}

	return output, nil
}

var reTag = regexp.MustCompile(`<[^>]*>`)

// cleanSummary убирает HTML-разметку, декодирует сущности
// и усекает текст до maxSummaryLen.
func cleanSummary(text string) string {
	clean := reTag.ReplaceAllString(text, "")
	clean = html.UnescapeString(clean)
	clean = strings.Join(strings.Fields(clean), " ")

	if len(clean) > maxSummaryLen {
		cut := clean[:maxSummaryLen-3]
		if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
			cut = cut[:idx]
		}
		clean = cut + "..."
	}

	return strings.TrimSpace(clean)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}

// Проверка выполнения контракта верхнего уровня.
var _ service.Aggregator = (*Fetcher)(nil)
