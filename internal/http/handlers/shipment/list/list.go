// Package list реализует HTTP-обработчик получения списка писем или посылок.
//
// Поддерживаются фильтры category и search (по адресам отделений),
// а также постраничный вывод через limit и offset.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/letters-packages/internal/http/response"
	"github.com/magabrotheeeer/letters-packages/internal/models"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

// Handler обрабатывает запросы на получение списка отправлений одного вида.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения списка.
type Service interface {
	Kind() shipment.Kind
	List(ctx context.Context, filter models.ShipmentFilter) ([]shipment.View, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список отправлений
// @Description Возвращает письма или посылки с подставленными ФИО, адресами и названием категории.
// @Tags Shipments
// @Produce  json
// @Param category query int false "Код категории"
// @Param search query string false "Подстрока адреса отделения отправления или получения"
// @Param limit query int false "Максимальное число записей"
// @Param offset query int false "Смещение"
// @Success 200 {array} map[string]any
// @Failure 500 {object} response.ErrorResponse
// @Router /letters [get]
// @Router /packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shipment.list"
	kind := h.service.Kind()

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter := models.ShipmentFilter{Search: q.Get("search")}
	if v, err := strconv.Atoi(q.Get("category")); err == nil {
		filter.Category = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	res, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not list "+kind.Table)
		return
	}

	log.Info("list shipments", slog.Int("count", len(res)))
	render.JSON(w, r, res)
}
