// Package postoffice реализует HTTP-обработчики справочника почтовых отделений.
package postoffice

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
	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// Service описывает бизнес-логику справочника отделений.
type Service interface {
	ListPostOffices(ctx context.Context) ([]models.PostOffice, error)
	ReadPostOffice(ctx context.Context, id int64) (models.PostOffice, error)
	CreatePostOffice(ctx context.Context, p models.PostOffice) (models.PostOffice, error)
	ReplacePostOffice(ctx context.Context, id int64, p models.PostOffice) (models.PostOffice, error)
	RemovePostOffice(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к /post-offices.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// List godoc
// @Summary Список почтовых отделений
// @Tags PostOffices
// @Produce  json
// @Success 200 {array} models.PostOffice
// @Router /post-offices [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.postoffice.List")

	offices, err := h.service.ListPostOffices(r.Context())
	if err != nil {
		response.ServiceError(w, r, log, err, "could not list post offices")
		return
	}
	render.JSON(w, r, offices)
}

// Read godoc
// @Summary Получить почтовое отделение
// @Tags PostOffices
// @Produce  json
// @Param id path int true "ID отделения"
// @Success 200 {object} models.PostOffice
// @Failure 404 {object} response.ErrorResponse
// @Router /post-offices/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.postoffice.Read")

	id, err := parseID(r)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	p, err := h.service.ReadPostOffice(r.Context(), id)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not read post office")
		return
	}
	render.JSON(w, r, p)
}

// Create godoc
// @Summary Создать почтовое отделение
// @Tags PostOffices
// @Accept  json
// @Produce  json
// @Param request body models.PostOffice true "Адрес и индекс"
// @Success 201 {object} models.PostOffice
// @Failure 400 {object} response.ValidationResponse
// @Router /post-offices [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.postoffice.Create")

	var req models.PostOffice
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	p, err := h.service.CreatePostOffice(r.Context(), req)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not create post office")
		return
	}

	log.Info("post office created", slog.Int64("id", p.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, p)
}

// Update godoc
// @Summary Заменить данные почтового отделения
// @Tags PostOffices
// @Accept  json
// @Produce  json
// @Param id path int true "ID отделения"
// @Param request body models.PostOffice true "Адрес и индекс"
// @Success 200 {object} models.PostOffice
// @Failure 400 {object} response.ValidationResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /post-offices/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.postoffice.Update")

	id, err := parseID(r)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	var req models.PostOffice
	if err = render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	p, err := h.service.ReplacePostOffice(r.Context(), id, req)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not update post office")
		return
	}
	render.JSON(w, r, p)
}

// Remove godoc
// @Summary Удалить почтовое отделение
// @Description Удаляет отделение вместе со всеми отправлениями, где оно указано.
// @Tags PostOffices
// @Param id path int true "ID отделения"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /post-offices/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.postoffice.Remove")

	id, err := parseID(r)
	if err != nil {
		log.Info("invalid id format", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	if err = h.service.RemovePostOffice(r.Context(), id); err != nil {
		response.ServiceError(w, r, log, err, "failed to delete post office")
		return
	}

	log.Info("post office deleted", slog.Int64("id", id))
	render.NoContent(w, r)
}
