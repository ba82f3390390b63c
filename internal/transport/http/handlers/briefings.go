package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/models"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/transport/http/response"
)

// generateRequest — тело POST /briefings/generate.
// Пустое тело или пустая категория означают запуск по всем категориям.
type generateRequest struct {
	Category string `json:"category"`
}

// episodeResponse — представление эпизода для клиента.
type episodeResponse struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	AirDate      string `json:"air_date"`
	Edition      string `json:"edition"`
	Title        string `json:"title"`
	ScriptText   string `json:"script_text"`
	AudioURL     string `json:"audio_url,omitempty"`
	DurationMins int    `json:"duration_minutes"`
	IsLive       bool   `json:"is_live"`
	CreatedAt    string `json:"created_at"`
	PublishedAt  string `json:"published_at"`
}

// runResponse — итог запуска одной категории.
type runResponse struct {
	Outcome   string          `json:"outcome"`
	Stories   int             `json:"stories"`
	ElapsedMS int64           `json:"elapsed_ms"`
	Episode   episodeResponse `json:"episode"`
}

// runStatusResponse — итог одной категории внутри запуска "по всем".
type runStatusResponse struct {
	Category string           `json:"category"`
	Outcome  string           `json:"outcome"`
	Error    string           `json:"error,omitempty"`
	Episode  *episodeResponse `json:"episode,omitempty"`
}

// runAllResponse — тело ответа запуска по всем категориям.
type runAllResponse struct {
	Runs []runStatusResponse `json:"runs"`
}

// liveListResponse — тело ответа списка live-эпизодов.
type liveListResponse struct {
	Episodes []episodeResponse `json:"episodes"`
}

func episodeToResponse(e models.Episode) episodeResponse {
	return episodeResponse{
		ID:           e.ID.String(),
		Category:     string(e.Category),
		AirDate:      e.AirDate.Format("2006-01-02"),
		Edition:      string(e.Edition),
		Title:        e.Title,
		ScriptText:   e.ScriptText,
		AudioURL:     e.AudioURL,
		DurationMins: e.DurationMins,
		IsLive:       e.IsLive,
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		PublishedAt:  e.PublishedAt.UTC().Format(time.RFC3339),
	}
}

// GenerateBriefing — POST /briefings/generate.
// С категорией в теле запускает пайплайн одной категории,
// без категории — по всем включённым последовательно.
func (h *Handlers) GenerateBriefing(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeStrict(r, &req); err != nil && !isEmptyBody(err) {
		response.WriteError(w, r, service.ErrUnknownCategory)
		return
	}

	if req.Category == "" {
		statuses := h.Service.RunAll(r.Context())

		resp := runAllResponse{Runs: make([]runStatusResponse, 0, len(statuses))}
		for _, st := range statuses {
			item := runStatusResponse{Category: string(st.Category)}
			if st.Err != nil {
				item.Outcome = "failed"
				item.Error = st.Err.Error()
			} else {
				item.Outcome = string(st.Result.Outcome)
				ep := episodeToResponse(st.Result.Episode)
				item.Episode = &ep
			}
			resp.Runs = append(resp.Runs, item)
		}

		response.WriteJSON(w, http.StatusOK, resp)
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		response.WriteError(w, r, service.ErrUnknownCategory)
		return
	}

	result, err := h.Service.RunCategory(r.Context(), category)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, runResponse{
		Outcome:   string(result.Outcome),
		Stories:   result.Stories,
		ElapsedMS: result.Elapsed.Milliseconds(),
		Episode:   episodeToResponse(result.Episode),
	})
}

// LiveBriefings — GET /briefings/live[?category=].
// С параметром возвращает live-эпизод одной категории,
// без параметра — список по всем категориям, где live есть.
func (h *Handlers) LiveBriefings(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			response.WriteError(w, r, service.ErrUnknownCategory)
			return
		}

		episode, err := h.Service.LiveEpisode(r.Context(), category)
		if err != nil {
			response.WriteError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, episodeToResponse(*episode))
		return
	}

	episodes, err := h.Service.LiveEpisodes(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	resp := liveListResponse{Episodes: make([]episodeResponse, 0, len(episodes))}
	for _, e := range episodes {
		resp.Episodes = append(resp.Episodes, episodeToResponse(e))
	}

	response.WriteJSON(w, http.StatusOK, resp)
}

// BriefingByID — GET /briefings/{id}.
func (h *Handlers) BriefingByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.WriteError(w, r, service.ErrNotFound)
		return
	}

	episode, err := h.Service.EpisodeByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, episodeToResponse(*episode))
}

// Healthz — GET /healthz, проверка живости процесса.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
