// Package validation настраивает валидатор структур для моделей почтовой системы:
// регистрирует форматы телефона и почтового индекса и переводит ошибки
// валидатора в сообщения, привязанные к JSON-именам полей.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// Сообщения об ошибках формата.
const (
	MsgRequired    = "Обязательное поле."
	MsgPhone       = "Введите номер телефона в формате +7XXXXXXXXXX"
	MsgPostalIndex = "Введите почтовый индекс из шести цифр"
)

var (
	phoneRU     = regexp.MustCompile(`^\+7\d{10}$`)
	postalIndex = regexp.MustCompile(`^\d{6}$`)
)

// New создаёт валидатор с зарегистрированными правилами phone_ru и postal_index.
// Имена полей в ошибках берутся из тега json.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone_ru", func(fl validator.FieldLevel) bool {
		return phoneRU.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("postal_index", func(fl validator.FieldLevel) bool {
		return postalIndex.MatchString(fl.Field().String())
	})
	return v
}

// Struct проверяет структуру и возвращает *models.ValidationError
// с сообщениями по полям либо исходную ошибку валидатора.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	verr := models.NewValidationError()
	for _, fe := range errs {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Убедитесь, что это значение содержит не более %s символов.", fe.Param())
	case "phone_ru":
		return MsgPhone
	case "postal_index":
		return MsgPostalIndex
	default:
		return "Некорректное значение."
	}
}
