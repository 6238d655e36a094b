// Package client реализует HTTP-обработчики справочника клиентов:
// список, чтение, создание, замену и удаление.
package client

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

// Service описывает бизнес-логику справочника клиентов.
type Service interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ReadClient(ctx context.Context, id int64) (models.Client, error)
	CreateClient(ctx context.Context, c models.Client) (models.Client, error)
	ReplaceClient(ctx context.Context, id int64, c models.Client) (models.Client, error)
	RemoveClient(ctx context.Context, id int64) error
}

// Client клиент в ответе API.
type Client struct {
	models.Client
	FullName string `json:"full_name"`
}

func toResponse(c models.Client) Client {
	return Client{Client: c, FullName: c.FullName()}
}

// Handler обрабатывает запросы к /clients.
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

// List godoc
// @Summary Список клиентов
// @Tags Clients
// @Produce  json
// @Success 200 {array} Client
// @Failure 500 {object} response.ErrorResponse
// @Router /clients [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.List")

	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		response.ServiceError(w, r, log, err, "could not list clients")
		return
	}

	res := make([]Client, 0, len(clients))
	for _, c := range clients {
		res = append(res, toResponse(c))
	}
	render.JSON(w, r, res)
}

// Read godoc
// @Summary Получить клиента
// @Tags Clients
// @Produce  json
// @Param id path int true "ID клиента"
// @Success 200 {object} Client
// @Failure 404 {object} response.ErrorResponse
// @Router /clients/{id} [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.Read")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	c, err := h.service.ReadClient(r.Context(), id)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not read client")
		return
	}
	render.JSON(w, r, toResponse(c))
}

// Create godoc
// @Summary Создать клиента
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param request body models.Client true "Данные клиента"
// @Success 201 {object} Client
// @Failure 400 {object} response.ValidationResponse
// @Router /clients [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.Create")

	var req models.Client
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	c, err := h.service.CreateClient(r.Context(), req)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not create client")
		return
	}

	log.Info("client created", slog.Int64("id", c.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toResponse(c))
}

// Update godoc
// @Summary Заменить данные клиента
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param id path int true "ID клиента"
// @Param request body models.Client true "Данные клиента"
// @Success 200 {object} Client
// @Failure 400 {object} response.ValidationResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /clients/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.Update")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	var req models.Client
	if err = render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r)
		return
	}

	c, err := h.service.ReplaceClient(r.Context(), id, req)
	if err != nil {
		response.ServiceError(w, r, log, err, "could not update client")
		return
	}
	render.JSON(w, r, toResponse(c))
}

// Remove godoc
// @Summary Удалить клиента
// @Description Удаляет клиента вместе с письмами и посылками, где он отправитель или получатель.
// @Tags Clients
// @Param id path int true "ID клиента"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /clients/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.client.Remove")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("invalid id format", sl.Err(err))
		response.NotFound(w, r)
		return
	}

	if err = h.service.RemoveClient(r.Context(), id); err != nil {
		response.ServiceError(w, r, log, err, "failed to delete client")
		return
	}

	log.Info("client deleted", slog.Int64("id", id))
	render.NoContent(w, r)
}
