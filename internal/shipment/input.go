package shipment

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// Сообщения об ошибках разбора.
const (
	MsgRequired   = "Обязательное поле."
	MsgNull       = "Это поле не может быть null."
	MsgNotInteger = "Требуется целочисленное значение."
)

// Fields полностью определённый набор полей отправления в том виде,
// в котором он хранится.
type Fields struct {
	Sender          int64 `json:"sender" db:"sender_id"`
	Recipient       int64 `json:"recipient" db:"recipient_id"`
	DepartureOffice int64 `json:"departure_office" db:"departure_office_id"`
	ArrivalOffice   int64 `json:"arrival_office" db:"arrival_office_id"`
	Category        int   `json:"category" db:"category"`
	Amount          int   `json:"amount" db:"amount"`
}

// Input поля из запроса. nil означает, что поле не передано.
type Input struct {
	Sender          *int64
	Recipient       *int64
	DepartureOffice *int64
	ArrivalOffice   *int64
	Category        *int
	Amount          *int
}

// ParseInput разбирает тело запроса. Принимаются только идентификаторы
// связанных записей, код категории и числовое поле вида; поля представления
// (адреса, индексы, телефон и т.п.) игнорируются.
func ParseInput(k Kind, body map[string]json.RawMessage) (Input, error) {
	var in Input
	verr := models.NewValidationError()

	for _, name := range k.writableFields() {
		raw, ok := body[name]
		if !ok {
			continue
		}
		v, msg := parseInt(raw)
		if msg != "" {
			verr.Add(name, msg)
			continue
		}
		switch name {
		case "sender":
			in.Sender = &v
		case "recipient":
			in.Recipient = &v
		case "departure_office":
			in.DepartureOffice = &v
		case "arrival_office":
			in.ArrivalOffice = &v
		case "category":
			c := int(v)
			in.Category = &c
		default:
			a := int(v)
			in.Amount = &a
		}
	}

	if !verr.Empty() {
		return Input{}, verr
	}
	return in, nil
}

func parseInt(raw json.RawMessage) (int64, string) {
	if string(bytes.TrimSpace(raw)) == "null" {
		return 0, MsgNull
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, MsgNotInteger
	}

	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, MsgNotInteger
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, MsgNotInteger
	}
	return n, ""
}

// Merge дополняет непереданные поля значениями существующей записи.
func (in Input) Merge(existing Fields) Input {
	if in.Sender == nil {
		in.Sender = &existing.Sender
	}
	if in.Recipient == nil {
		in.Recipient = &existing.Recipient
	}
	if in.DepartureOffice == nil {
		in.DepartureOffice = &existing.DepartureOffice
	}
	if in.ArrivalOffice == nil {
		in.ArrivalOffice = &existing.ArrivalOffice
	}
	if in.Category == nil {
		in.Category = &existing.Category
	}
	if in.Amount == nil {
		in.Amount = &existing.Amount
	}
	return in
}

// Clients возвращает переданные идентификаторы клиентов.
func (in Input) Clients() []int64 {
	return collect(in.Sender, in.Recipient)
}

// PostOffices возвращает переданные идентификаторы почтовых отделений.
func (in Input) PostOffices() []int64 {
	return collect(in.DepartureOffice, in.ArrivalOffice)
}

func collect(ids ...*int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
