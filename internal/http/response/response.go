// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков: ошибок, ошибок валидации
// и сопоставления ошибок сервисов со статусами HTTP.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// ErrorResponse структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// ValidationResponse ошибки валидации: сообщения по полям и общий ключ non_field_errors.
type ValidationResponse map[string][]string

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Сообщения ответов.
const (
	MsgInvalidBody = "invalid request body"
	MsgNotFound    = "not found"
)

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует тело ответа 400 из ошибок валидации.
func ValidationError(verr *models.ValidationError) ValidationResponse {
	return ValidationResponse(verr.Map())
}

// BadRequest отвечает 400 на тело запроса, которое не удалось разобрать.
func BadRequest(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error(MsgInvalidBody))
}

// NotFound отвечает 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, Error(MsgNotFound))
}

// ServiceError переводит ошибку сервиса в ответ:
// ошибки валидации дают 400, отсутствующая запись 404, остальное 500 с сообщением msg.
func ServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, msg string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(verr))
	case errors.Is(err, models.ErrNotFound):
		log.Info("record not found", sl.Err(err))
		NotFound(w, r)
	default:
		log.Error(msg, sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error(msg))
	}
}
