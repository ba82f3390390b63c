// scriptgen реализует service.ScriptGenerator поверх Anthropic Messages API.
// client.go — HTTP-клиент и разбор ответа;
// prompt.go — сборка промпта и санитизация текста выпуска.
package scriptgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/config"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
)

const apiVersion = "2023-06-01"

// Тип серверного инструмента веб-поиска в Messages API.
const webSearchToolType = "web_search_20250305"

// Client — клиент сервиса генерации текста.
type Client struct {
	cfg        config.LLMConfig
	httpClient *http.Client
}

// New создаёт клиент из конфигурации.
func New(cfg config.LLMConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type messagesRequest struct {
	Model     string     `json:"model"`
	MaxTokens int        `json:"max_tokens"`
	Tools     []toolSpec `json:"tools,omitempty"`
	Messages  []message  `json:"messages"`
}

type toolSpec struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate собирает промпт по историям выпуска и вызывает модель.
//
// Контракт:
//   - ответ склеивается из всех текстовых блоков (при веб-поиске их
//     может быть несколько);
//   - результат проходит санитизацию (код-блоки, markdown, пустые строки);
//   - пустой текст после санитизации — ошибка: запасного скрипта нет.
func (c *Client) Generate(ctx context.Context, req service.ScriptRequest) (*models.Script, error) {
	const op = "scriptgen/Generate"

	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key is not configured", op)
	}

	payload := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: buildPrompt(req)}},
	}
	if c.cfg.WebSearch {
		payload.Tools = []toolSpec{{Type: webSearchToolType, Name: "web_search"}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", op, err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s: status=%d: %s", op, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	script := sanitizeScript(text.String())
	if script == "" {
		return nil, fmt.Errorf("%s: empty script in model response", op)
	}

	return &models.Script{
		Title: episodeTitle(req),
		Text:  script,
	}, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ service.ScriptGenerator = (*Client)(nil)
