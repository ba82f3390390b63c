package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/transport/http/handlers"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)

	// Зависимости хендлеров.
	h := handlers.New(svc)

	registerRoutes(root, h, opts.Timeout)
	return root
}

// registerRoutes — единая точка регистрации всех эндпойнтов.
// Дедлайн timeout применяется только к read-путям: генерация выпуска
// живёт под собственным wall-clock лимитом пайплайна.
func registerRoutes(r chi.Router, h *handlers.Handlers, timeout time.Duration) {
	r.Post("/briefings/generate", h.GenerateBriefing)

	r.Group(func(gr chi.Router) {
		if timeout > 0 {
			gr.Use(middleware.Timeout(timeout))
		}

		gr.Get("/briefings/live", h.LiveBriefings)
		gr.Get("/briefings/{id}", h.BriefingByID)

		// служебные
		gr.Get("/healthz", h.Healthz)
		gr.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})
}
