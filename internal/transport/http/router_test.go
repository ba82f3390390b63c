package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/config"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage"
)

// memStorage — in-memory хранилище для транспортных тестов.
type memStorage struct {
	mu       sync.Mutex
	episodes map[string]*models.Episode
}

func newMemStorage() *memStorage {
	return &memStorage{episodes: make(map[string]*models.Episode)}
}

func (m *memStorage) PublishEpisode(_ context.Context, episode models.Episode) (*models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s|%s|%s", episode.Category, episode.AirDate.Format("2006-01-02"), episode.Edition)
	if existing, ok := m.episodes[key]; ok {
		episode.ID = existing.ID
	} else {
		episode.ID = uuid.New()
	}
	episode.IsLive = true

	for k, e := range m.episodes {
		if e.Category == episode.Category && k != key {
			e.IsLive = false
		}
	}

	stored := episode
	m.episodes[key] = &stored
	copied := stored
	return &copied, nil
}

func (m *memStorage) LiveEpisode(_ context.Context, category models.Category) (*models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.episodes {
		if e.Category == category && e.IsLive {
			copied := *e
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStorage) LiveEpisodes(_ context.Context) ([]models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var output []models.Episode
	for _, e := range m.episodes {
		if e.IsLive {
			output = append(output, *e)
		}
	}
	return output, nil
}

func (m *memStorage) EpisodeByID(_ context.Context, id string) (*models.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.episodes {
		if e.ID.String() == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStorage) CategorySettings(_ context.Context, category models.Category) (*models.CategorySettings, error) {
	return &models.CategorySettings{Category: category, Enabled: true, StoriesPerCategory: 5}, nil
}

func (m *memStorage) ScheduleSettings(_ context.Context) (*models.ScheduleSettings, error) {
	return &models.ScheduleSettings{Times: []string{"06:00"}, Timezone: "UTC"}, nil
}

func (m *memStorage) Close() {}

type memAudio struct{}

func (memAudio) UploadAudio(_ context.Context, key string, _ []byte) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

type memFetcher struct{}

func (memFetcher) FetchMany(_ context.Context, _ []models.FeedSource) <-chan service.FetchResult {
	out := make(chan service.FetchResult, 1)
	out <- service.FetchResult{Items: []models.Story{
		{Title: "Story One", SourceName: "test"},
		{Title: "Story Two", SourceName: "test"},
	}}
	close(out)
	return out
}

type memScripts struct{}

func (memScripts) Generate(_ context.Context, req service.ScriptRequest) (*models.Script, error) {
	return &models.Script{
		Title: req.Category.DisplayName() + " - test",
		Text:  "Good morning, drivers. Test briefing text.",
	}, nil
}

type memSpeech struct{}

func (memSpeech) Synthesize(_ context.Context, _ string, _ string) (*service.SynthesisResult, error) {
	return &service.SynthesisResult{Audio: []byte("mp3"), DurationSeconds: 30}, nil
}

// newTestServer — httptest-сервер поверх собранного роутера.
func newTestServer(t *testing.T) (*httptest.Server, *memStorage, *service.Service) {
	t.Helper()

	st := newMemStorage()
	svc := service.New(st, memAudio{}, memFetcher{}, memScripts{}, memSpeech{}, config.Config{
		Pipeline: config.PipelineConfig{
			RunTimeout:   time.Minute,
			FeedTimeout:  5 * time.Second,
			ItemsPerFeed: 10,
		},
		TTS: config.TTSConfig{DefaultVoice: "voice-default"},
	})

	srv := httptest.NewServer(NewRouter(svc, Options{Timeout: 5 * time.Second}))
	t.Cleanup(srv.Close)
	return srv, st, svc
}

func getJSON(t *testing.T, url string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/healthz", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])

	// Роутер проставляет X-Request-Id.
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRouter_Generate_SingleCategory(t *testing.T) {
	t.Parallel()

	srv, st, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/briefings/generate", "application/json",
		strings.NewReader(`{"category": "business"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Outcome string `json:"outcome"`
		Stories int    `json:"stories"`
		Episode struct {
			ID       string `json:"id"`
			Category string `json:"category"`
			AudioURL string `json:"audio_url"`
			IsLive   bool   `json:"is_live"`
		} `json:"episode"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Equal(t, "succeeded", body.Outcome)
	require.Equal(t, 2, body.Stories)
	require.Equal(t, "business", body.Episode.Category)
	require.True(t, body.Episode.IsLive)
	require.Contains(t, body.Episode.AudioURL, "https://cdn.example.com/news/business-")

	// Эпизод действительно записан и live.
	live, err := st.LiveEpisode(context.Background(), models.CategoryBusiness)
	require.NoError(t, err)
	require.Equal(t, body.Episode.ID, live.ID.String())
}

func TestRouter_Generate_AllCategories(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/briefings/generate", "application/json", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Runs []struct {
			Category string `json:"category"`
			Outcome  string `json:"outcome"`
		} `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Runs, len(models.Categories()))
	for _, run := range body.Runs {
		require.Equal(t, "succeeded", run.Outcome)
	}
}

func TestRouter_Generate_UnknownCategory(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/briefings/generate", "application/json",
		strings.NewReader(`{"category": "politics"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Live_ByCategory(t *testing.T) {
	t.Parallel()

	srv, _, svc := newTestServer(t)

	_, err := svc.RunCategory(context.Background(), models.CategorySports)
	require.NoError(t, err)

	var body struct {
		Category string `json:"category"`
		IsLive   bool   `json:"is_live"`
	}
	resp := getJSON(t, srv.URL+"/briefings/live?category=sports", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "sports", body.Category)
	require.True(t, body.IsLive)
}

func TestRouter_Live_NotFound(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)

	resp := getJSON(t, srv.URL+"/briefings/live?category=science", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Live_BadCategory(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)

	resp := getJSON(t, srv.URL+"/briefings/live?category=weather", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Live_All(t *testing.T) {
	t.Parallel()

	srv, _, svc := newTestServer(t)

	_, err := svc.RunCategory(context.Background(), models.CategoryBusiness)
	require.NoError(t, err)
	_, err = svc.RunCategory(context.Background(), models.CategoryScience)
	require.NoError(t, err)

	var body struct {
		Episodes []struct {
			Category string `json:"category"`
		} `json:"episodes"`
	}
	resp := getJSON(t, srv.URL+"/briefings/live", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Episodes, 2)
}

func TestRouter_BriefingByID(t *testing.T) {
	t.Parallel()

	srv, _, svc := newTestServer(t)

	result, err := svc.RunCategory(context.Background(), models.CategoryNational)
	require.NoError(t, err)

	var body struct {
		ID string `json:"id"`
	}
	resp := getJSON(t, srv.URL+"/briefings/"+result.Episode.ID.String(), &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, result.Episode.ID.String(), body.ID)

	resp = getJSON(t, srv.URL+"/briefings/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	srv, _, _ := newTestServer(t)

	resp := getJSON(t, srv.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
