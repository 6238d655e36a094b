package repository

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/letters-packages/internal/models"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

func clientColumns(alias, prefix string) []string {
	cols := make([]string, 0, 5)
	for _, c := range []string{"id", "name", "lastname", "middle_name", "phone_number"} {
		cols = append(cols, alias+"."+c+` AS "`+prefix+"."+c+`"`)
	}
	return cols
}

func officeColumns(alias, prefix string) []string {
	cols := make([]string, 0, 3)
	for _, c := range []string{"id", "address", "postal_index"} {
		cols = append(cols, alias+"."+c+` AS "`+prefix+"."+c+`"`)
	}
	return cols
}

// shipmentSelect строит выборку отправлений вида k вместе со связанными записями.
func (s *Storage) shipmentSelect(k shipment.Kind) squirrel.SelectBuilder {
	cols := []string{"t.id", "t.category", "t." + k.AmountField + " AS amount"}
	cols = append(cols, clientColumns("sc", "sender")...)
	cols = append(cols, clientColumns("rc", "recipient")...)
	cols = append(cols, officeColumns("dp", "departure")...)
	cols = append(cols, officeColumns("ar", "arrival")...)

	return s.builder.Select(cols...).
		From(k.Table + " t").
		Join("clients sc ON sc.id = t.sender_id").
		Join("clients rc ON rc.id = t.recipient_id").
		Join("post_offices dp ON dp.id = t.departure_office_id").
		Join("post_offices ar ON ar.id = t.arrival_office_id")
}

// ListShipments возвращает отправления вида k, отсортированные по id.
func (s *Storage) ListShipments(ctx context.Context, k shipment.Kind, filter models.ShipmentFilter) ([]shipment.Row, error) {
	const op = "storage.ListShipments"

	q := s.shipmentSelect(k).OrderBy("t.id")
	if filter.Category != 0 {
		q = q.Where(squirrel.Eq{"t.category": filter.Category})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"dp.address": pattern},
			squirrel.ILike{"ar.address": pattern},
		})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	rows := make([]shipment.Row, 0)
	if err := s.selectAll(ctx, op, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadShipment возвращает отправление вида k по id.
func (s *Storage) ReadShipment(ctx context.Context, k shipment.Kind, id int64) (shipment.Row, error) {
	const op = "storage.ReadShipment"

	var row shipment.Row
	if err := s.get(ctx, op, k.Name, &row, s.shipmentSelect(k).Where(squirrel.Eq{"t.id": id})); err != nil {
		return shipment.Row{}, err
	}
	return row, nil
}

// CreateShipment сохраняет отправление и возвращает его id.
func (s *Storage) CreateShipment(ctx context.Context, k shipment.Kind, f shipment.Fields) (int64, error) {
	const op = "storage.CreateShipment"

	q := s.builder.Insert(k.Table).
		Columns("sender_id", "recipient_id", "departure_office_id", "arrival_office_id", "category", k.AmountField).
		Values(f.Sender, f.Recipient, f.DepartureOffice, f.ArrivalOffice, f.Category, f.Amount)
	return s.insert(ctx, op, q)
}

// UpdateShipment перезаписывает все поля отправления.
func (s *Storage) UpdateShipment(ctx context.Context, k shipment.Kind, id int64, f shipment.Fields) error {
	const op = "storage.UpdateShipment"

	q := s.builder.Update(k.Table).
		SetMap(map[string]any{
			"sender_id":           f.Sender,
			"recipient_id":        f.Recipient,
			"departure_office_id": f.DepartureOffice,
			"arrival_office_id":   f.ArrivalOffice,
			"category":            f.Category,
			k.AmountField:         f.Amount,
		}).
		Where(squirrel.Eq{"id": id})
	return s.exec(ctx, op, k.Name, q)
}

// RemoveShipment удаляет отправление.
func (s *Storage) RemoveShipment(ctx context.Context, k shipment.Kind, id int64) error {
	const op = "storage.RemoveShipment"

	return s.exec(ctx, op, k.Name, s.builder.Delete(k.Table).Where(squirrel.Eq{"id": id}))
}

// MissingClients возвращает идентификаторы клиентов, которых нет в хранилище.
func (s *Storage) MissingClients(ctx context.Context, ids []int64) ([]int64, error) {
	return s.missing(ctx, "storage.MissingClients", "clients", ids)
}

// MissingPostOffices возвращает идентификаторы отделений, которых нет в хранилище.
func (s *Storage) MissingPostOffices(ctx context.Context, ids []int64) ([]int64, error) {
	return s.missing(ctx, "storage.MissingPostOffices", "post_offices", ids)
}
