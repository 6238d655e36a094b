package remove

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

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Kind() shipment.Kind
	Remove(ctx context.Context, id int64) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить отправление
// @Tags Shipments
// @Param id path int true "ID отправления"
// @Success 204
// @Failure 404 {object} response.ErrorResponse "Отправление не найдено"
// @Router /letters/{id} [delete]
// @Router /packages/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.shipment.remove"
	kind := h.service.Kind()

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("invalid id format", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	if err = h.service.Remove(r.Context(), id); err != nil {
		response.ServiceError(w, r, log, err, "failed to delete "+kind.Name)
		return
	}

	log.Info("success to delete shipment", slog.Int64("id", id))
	render.NoContent(w, r)
}
