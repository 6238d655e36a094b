// Package read реализует HTTP-обработчик получения письма или посылки по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/letters-packages/internal/http/response"
	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

// Handler обрабатывает запросы на получение отправления по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения отправления.
type Service interface {
	Kind() shipment.Kind
	Read(ctx context.Context, id int64) (shipment.View, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить отправление
// @Tags Shipments
// @Produce  json
// @Param id path int true "ID отправления"
// @Success 200 {object} map[string]any
// @Failure 404 {object} response.ErrorResponse "Отправление не найдено"
// @Failure 500 {object} response.ErrorResponse
// @Router /letters/{id} [get]
// @Router /packages/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shipment.read"
	kind := h.service.Kind()

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not read "+kind.Name)
		return
	}

	log.Debug("success to read shipment", slog.Int64("id", id))
	render.JSON(w, r, res)
}
