package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Service *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{Service: svc}
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
// На пустом теле возвращает io.EOF (см. isEmptyBody).
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// isEmptyBody — тело запроса отсутствует или пустое.
func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}
