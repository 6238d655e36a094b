package shipment

import (
	"fmt"

	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// Сообщения о нарушении перекрёстных ограничений.
const (
	MsgSameClients = "Отправитель и получатель должны быть разные"
	MsgSameOffices = "Пункты отправления и получения должны быть разные"
)

// Validate проверяет входные данные вида k. Для создания и полной замены
// existing равен nil и все поля обязательны. Для частичного обновления
// непереданные поля берутся из existing.
//
// Пара sender/recipient (и пара отделений) проверяется, только если известны
// оба значения; если при частичном обновлении не передано ни одно из них,
// сохранённая пара не перепроверяется.
func Validate(k Kind, in Input, existing *Fields) (Fields, error) {
	resolved := in
	if existing != nil {
		resolved = in.Merge(*existing)
	}

	verr := models.NewValidationError()
	required(verr, "sender", resolved.Sender == nil)
	required(verr, "recipient", resolved.Recipient == nil)
	required(verr, "departure_office", resolved.DepartureOffice == nil)
	required(verr, "arrival_office", resolved.ArrivalOffice == nil)
	required(verr, "category", resolved.Category == nil)
	required(verr, k.AmountField, resolved.Amount == nil)

	if c := resolved.Category; c != nil {
		if _, ok := k.Label(*c); !ok {
			verr.Add("category", fmt.Sprintf("Значения %d нет среди допустимых вариантов.", *c))
		}
	}
	if a := resolved.Amount; a != nil && *a < 1 {
		verr.Add(k.AmountField, k.AmountMessage)
	}

	if samePair(resolved.Sender, resolved.Recipient, existing == nil || in.Sender != nil || in.Recipient != nil) {
		verr.AddNonField(MsgSameClients)
	}
	if samePair(resolved.DepartureOffice, resolved.ArrivalOffice,
		existing == nil || in.DepartureOffice != nil || in.ArrivalOffice != nil) {
		verr.AddNonField(MsgSameOffices)
	}

	if !verr.Empty() {
		return Fields{}, verr
	}
	return Fields{
		Sender:          *resolved.Sender,
		Recipient:       *resolved.Recipient,
		DepartureOffice: *resolved.DepartureOffice,
		ArrivalOffice:   *resolved.ArrivalOffice,
		Category:        *resolved.Category,
		Amount:          *resolved.Amount,
	}, nil
}

func required(verr *models.ValidationError, field string, missing bool) {
	if missing {
		verr.Add(field, MsgRequired)
	}
}

func samePair(a, b *int64, touched bool) bool {
	return touched && a != nil && b != nil && *a == *b
}
