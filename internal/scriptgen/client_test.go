package scriptgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/config"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
)

// sampleRequest — типовой вход генерации.
func sampleRequest() service.ScriptRequest {
	return service.ScriptRequest{
		Category: models.CategoryBusiness,
		Edition:  models.EditionMorning,
		Date:     time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC),
		Stories: []models.Story{
			{Title: "Fed Holds Rates Steady", SourceName: "CNBC", Summary: "The central bank kept rates unchanged."},
			{Title: "Markets Rally", SourceName: "Bloomberg", Summary: "Stocks rose on the decision."},
		},
	}
}

// fakeAPI — httptest-сервер, имитирующий Messages API.
// Последний полученный запрос доступен через captured.
func fakeAPI(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("x-api-key"))
		require.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		if captured != nil {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			*captured = payload
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(baseURL string, webSearch bool) *Client {
	return New(config.LLMConfig{
		BaseURL:   baseURL,
		APIKey:    "sk-test",
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 2000,
		WebSearch: webSearch,
		Timeout:   5 * time.Second,
	})
}

func TestGenerate_OK(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	srv := fakeAPI(t, http.StatusOK, `{
		"content": [{"type": "text", "text": "Good morning, drivers. Markets rallied today. That's your update."}]
	}`, &captured)

	c := testClient(srv.URL, false)

	script, err := c.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Equal(t, "Business & Finance - Sunday, August 30, 2026 Morning", script.Title)
	require.Contains(t, script.Text, "Good morning, drivers")

	// Промпт содержит истории и категорию; инструменты не запрошены.
	require.Equal(t, "claude-sonnet-4-20250514", captured["model"])
	require.Nil(t, captured["tools"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	prompt := messages[0].(map[string]any)["content"].(string)
	require.Contains(t, prompt, "Fed Holds Rates Steady")
	require.Contains(t, prompt, "Business & Finance")
	require.Contains(t, prompt, "Sunday, August 30, 2026")
}

func TestGenerate_WebSearchTool(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	srv := fakeAPI(t, http.StatusOK, `{
		"content": [
			{"type": "server_tool_use", "text": ""},
			{"type": "text", "text": "Part one. "},
			{"type": "text", "text": "Part two."}
		]
	}`, &captured)

	c := testClient(srv.URL, true)

	script, err := c.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)

	// Текстовые блоки склеиваются, нетекстовые пропускаются.
	require.Equal(t, "Part one. Part two.", script.Text)

	tools := captured["tools"].([]any)
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	require.Equal(t, webSearchToolType, tool["type"])
	require.Equal(t, "web_search", tool["name"])
}

func TestGenerate_APIError(t *testing.T) {
	t.Parallel()

	srv := fakeAPI(t, http.StatusServiceUnavailable, `{"error": {"type": "overloaded_error"}}`, nil)

	c := testClient(srv.URL, false)

	_, err := c.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=503")
}

func TestGenerate_EmptyScript(t *testing.T) {
	t.Parallel()

	srv := fakeAPI(t, http.StatusOK, `{"content": [{"type": "text", "text": "   \n\n "}]}`, nil)

	c := testClient(srv.URL, false)

	_, err := c.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty script")
}

func TestGenerate_NoAPIKey(t *testing.T) {
	t.Parallel()

	c := New(config.LLMConfig{BaseURL: "http://localhost:1", Timeout: time.Second})

	_, err := c.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key")
}

func Test_sanitizeScript(t *testing.T) {
	t.Parallel()

	// Код-блоки, markdown и префиксы персонажей вычищаются.
	raw := "```\nmeta\n```\n**Good morning**, drivers.\n\n\n\nANCHOR: Our top story today.\nhost: And finally."
	got := sanitizeScript(raw)

	require.NotContains(t, got, "```")
	require.NotContains(t, got, "**")
	require.NotContains(t, got, "ANCHOR:")
	require.NotContains(t, got, "host:")
	require.NotContains(t, got, "\n\n\n")
	require.Contains(t, got, "Good morning, drivers.")
	require.Contains(t, got, "Our top story today.")
}

func Test_episodeTitle(t *testing.T) {
	t.Parallel()

	req := sampleRequest()
	require.Equal(t, "Business & Finance - Sunday, August 30, 2026 Morning", episodeTitle(req))

	req.Edition = models.EditionEvening
	req.Category = models.CategoryScience
	require.Equal(t, "Science & Technology - Sunday, August 30, 2026 Evening", episodeTitle(req))
}
