// Package create реализует HTTP-обработчик создания письма или посылки.
//
// Handler принимает JSON-объект с идентификаторами отправителя, получателя и отделений,
// категорией и весом (для писем) или стоимостью (для посылок). Проверка полей
// и перекрёстных ограничений выполняется сервисом; при ошибках возвращается 400
// с сообщениями по полям и ключом non_field_errors.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/letters-packages/internal/http/response"
	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

// Handler управляет HTTP-запросами на создание отправлений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики отправлений одного вида
}

// Service описывает интерфейс бизнес-логики создания отправления.
type Service interface {
	Kind() shipment.Kind
	Create(ctx context.Context, body map[string]json.RawMessage) (shipment.View, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать отправление
// @Description Создает письмо (weight) или посылку (cost). Возвращает запись в отображаемом виде.
// @Tags Shipments
// @Accept  json
// @Produce  json
// @Param request body map[string]any true "sender, recipient, departure_office, arrival_office, category, weight|cost"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ValidationResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse
// @Router /letters [post]
// @Router /packages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shipment.create"
	kind := h.service.Kind()

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var body map[string]json.RawMessage
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	res, err := h.service.Create(r.Context(), body)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not create "+kind.Name)
		return
	}

	log.Info("success to create shipment", slog.Int64("id", res.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res)
}
