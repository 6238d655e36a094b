package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound возвращается хранилищем, если запись с указанным идентификатором отсутствует.
var ErrNotFound = errors.New("not found")

// NonFieldErrors ключ для ошибок, не относящихся к конкретному полю.
const NonFieldErrors = "non_field_errors"

// NewError дополняет ошибку именем модели.
func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}

// ValidationError содержит ошибки проверки входных данных:
// по полям и общие (перекрёстные) ошибки записи.
type ValidationError struct {
	Fields   map[string][]string
	NonField []string
}

// NewValidationError создаёт пустой набор ошибок.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add добавляет сообщение к полю.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// AddNonField добавляет общее сообщение.
func (e *ValidationError) AddNonField(msg string) {
	e.NonField = append(e.NonField, msg)
}

// Empty сообщает, что ошибок нет.
func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.NonField) == 0)
}

// Merge переносит ошибки other в e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
	e.NonField = append(e.NonField, other.NonField...)
}

// Map возвращает ошибки в виде, пригодном для JSON-ответа.
func (e *ValidationError) Map() map[string][]string {
	out := make(map[string][]string, len(e.Fields)+1)
	for field, msgs := range e.Fields {
		out[field] = msgs
	}
	if len(e.NonField) > 0 {
		out[NonFieldErrors] = e.NonField
	}
	return out
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+len(e.NonField))
	for _, field := range keys {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
	}
	parts = append(parts, e.NonField...)
	return "validation failed: " + strings.Join(parts, "; ")
}
