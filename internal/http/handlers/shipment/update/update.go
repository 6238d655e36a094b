// Package update реализует HTTP-обработчик изменения письма или посылки.
//
// PUT заменяет запись целиком и требует все поля; PATCH принимает любое подмножество
// полей, остальные берутся из сохранённой записи.
package update

import (
	"context"
	"encoding/json"
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

// Handler обрабатывает PUT и PATCH запросы к отправлению.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики изменения отправления.
type Service interface {
	Kind() shipment.Kind
	Replace(ctx context.Context, id int64, body map[string]json.RawMessage) (shipment.View, error)
	Patch(ctx context.Context, id int64, body map[string]json.RawMessage) (shipment.View, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Изменить отправление
// @Description PUT заменяет все поля, PATCH только переданные.
// @Tags Shipments
// @Accept  json
// @Produce  json
// @Param id path int true "ID отправления"
// @Param request body map[string]any true "Поля отправления"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ValidationResponse "Ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Отправление не найдено"
// @Failure 500 {object} response.ErrorResponse
// @Router /letters/{id} [put]
// @Router /letters/{id} [patch]
// @Router /packages/{id} [put]
// @Router /packages/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shipment.update"
	kind := h.service.Kind()

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", kind.Name),
		slog.String("method", r.Method),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	var body map[string]json.RawMessage
	if err = render.DecodeJSON(r.Body, &body); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	var res shipment.View
	if r.Method == http.MethodPatch {
		res, err = h.service.Patch(r.Context(), id, body)
	} else {
		res, err = h.service.Replace(r.Context(), id, body)
	}
	if err != nil {
		response.ServiceError(w, r, log, err, "could not update "+kind.Name)
		return
	}

	log.Info("success to update shipment", slog.Int64("id", id))
	render.JSON(w, r, res)
}
