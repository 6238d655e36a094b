// Package models содержит доменные структуры почтовой системы: клиентов,
// почтовые отделения, фильтры выборки и общие ошибки слоя данных.
package models

import "strings"

// Client представляет клиента почтовой службы (отправителя или получателя).
type Client struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" validate:"required,max=50"`
	Lastname    string  `json:"lastname" db:"lastname" validate:"required,max=50"`
	MiddleName  *string `json:"middle_name" db:"middle_name" validate:"omitempty,max=50"`
	PhoneNumber string  `json:"phone_number" db:"phone_number" validate:"required,phone_ru"`
}

// FullName возвращает ФИО клиента в порядке «фамилия имя отчество».
func (c Client) FullName() string {
	middle := ""
	if c.MiddleName != nil {
		middle = *c.MiddleName
	}
	return strings.TrimSpace(c.Lastname + " " + c.Name + " " + middle)
}
