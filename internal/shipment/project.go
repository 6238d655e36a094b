package shipment

import (
	"bytes"
	"encoding/json"

	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// Row запись отправления вместе со связанными клиентами и отделениями.
type Row struct {
	ID        int64             `json:"id" db:"id"`
	Category  int               `json:"category" db:"category"`
	Amount    int               `json:"amount" db:"amount"`
	Sender    models.Client     `json:"sender" db:"sender"`
	Recipient models.Client     `json:"recipient" db:"recipient"`
	Departure models.PostOffice `json:"departure_office" db:"departure"`
	Arrival   models.PostOffice `json:"arrival_office" db:"arrival"`
}

// Fields возвращает хранимые поля записи.
func (r Row) Fields() Fields {
	return Fields{
		Sender:          r.Sender.ID,
		Recipient:       r.Recipient.ID,
		DepartureOffice: r.Departure.ID,
		ArrivalOffice:   r.Arrival.ID,
		Category:        r.Category,
		Amount:          r.Amount,
	}
}

// View представление отправления в ответе API. Поля сериализуются
// в порядке Kind.ResponseFields.
type View struct {
	ID              int64
	Sender          string
	Recipient       string
	DepartureOffice string
	ArrivalOffice   string
	DepartureIndex  string
	ArrivalIndex    string
	PhoneNumber     string
	Category        string
	Amount          int

	kind Kind
}

// Project заменяет идентификаторы и коды на отображаемые значения.
func Project(k Kind, r Row) View {
	label, _ := k.Label(r.Category)
	return View{
		ID:              r.ID,
		Sender:          r.Sender.FullName(),
		Recipient:       r.Recipient.FullName(),
		DepartureOffice: r.Departure.Address,
		ArrivalOffice:   r.Arrival.Address,
		DepartureIndex:  r.Departure.PostalIndex,
		ArrivalIndex:    r.Arrival.PostalIndex,
		PhoneNumber:     r.Recipient.PhoneNumber,
		Category:        label,
		Amount:          r.Amount,
		kind:            k,
	}
}

// ProjectAll применяет Project к каждой записи.
func ProjectAll(k Kind, rows []Row) []View {
	views := make([]View, 0, len(rows))
	for _, r := range rows {
		views = append(views, Project(k, r))
	}
	return views
}

func (v View) value(field string) any {
	switch field {
	case "id":
		return v.ID
	case "sender":
		return v.Sender
	case "recipient":
		return v.Recipient
	case "departure_office":
		return v.DepartureOffice
	case "arrival_office":
		return v.ArrivalOffice
	case "departure_index":
		return v.DepartureIndex
	case "arrival_index":
		return v.ArrivalIndex
	case "phone_number":
		return v.PhoneNumber
	case "category":
		return v.Category
	default:
		return v.Amount
	}
}

// MarshalJSON сериализует представление в виде объекта с фиксированным порядком ключей.
func (v View) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range v.kind.ResponseFields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.value(field))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
