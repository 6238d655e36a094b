package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/letters-packages/internal/models"
)

var (
	clientFields = []string{"name", "lastname", "middle_name", "phone_number"}
	officeFields = []string{"address", "postal_index"}
)

// ListClients возвращает всех клиентов.
func (s *Storage) ListClients(ctx context.Context) ([]models.Client, error) {
	const op = "storage.ListClients"

	clients := make([]models.Client, 0)
	q := s.builder.Select(append([]string{"id"}, clientFields...)...).From("clients").OrderBy("id")
	if err := s.selectAll(ctx, op, &clients, q); err != nil {
		return nil, err
	}
	return clients, nil
}

// ReadClient возвращает клиента по id.
func (s *Storage) ReadClient(ctx context.Context, id int64) (models.Client, error) {
	const op = "storage.ReadClient"

	var c models.Client
	q := s.builder.Select(append([]string{"id"}, clientFields...)...).From("clients").Where(squirrel.Eq{"id": id})
	if err := s.get(ctx, op, "client", &c, q); err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// CreateClient сохраняет клиента и возвращает его id.
func (s *Storage) CreateClient(ctx context.Context, c models.Client) (int64, error) {
	const op = "storage.CreateClient"

	q := s.builder.Insert("clients").Columns(clientFields...).
		Values(c.Name, c.Lastname, c.MiddleName, c.PhoneNumber)
	return s.insert(ctx, op, q)
}

// UpdateClient перезаписывает данные клиента.
func (s *Storage) UpdateClient(ctx context.Context, id int64, c models.Client) error {
	const op = "storage.UpdateClient"

	q := s.builder.Update("clients").
		Set("name", c.Name).
		Set("lastname", c.Lastname).
		Set("middle_name", c.MiddleName).
		Set("phone_number", c.PhoneNumber).
		Where(squirrel.Eq{"id": id})
	return s.exec(ctx, op, "client", q)
}

// RemoveClient удаляет клиента вместе с его письмами и посылками.
func (s *Storage) RemoveClient(ctx context.Context, id int64) error {
	const op = "storage.RemoveClient"

	return s.exec(ctx, op, "client", s.builder.Delete("clients").Where(squirrel.Eq{"id": id}))
}

// BulkCreateClients вставляет клиентов одним запросом: либо все, либо ни одного.
func (s *Storage) BulkCreateClients(ctx context.Context, clients []models.Client) (int, error) {
	const op = "storage.BulkCreateClients"
	if len(clients) == 0 {
		return 0, nil
	}

	q := s.builder.Insert("clients").Columns(clientFields...)
	for _, c := range clients {
		q = q.Values(c.Name, c.Lastname, c.MiddleName, c.PhoneNumber)
	}
	return s.bulkInsert(ctx, op, q)
}

// ListPostOffices возвращает все почтовые отделения.
func (s *Storage) ListPostOffices(ctx context.Context) ([]models.PostOffice, error) {
	const op = "storage.ListPostOffices"

	offices := make([]models.PostOffice, 0)
	q := s.builder.Select(append([]string{"id"}, officeFields...)...).From("post_offices").OrderBy("id")
	if err := s.selectAll(ctx, op, &offices, q); err != nil {
		return nil, err
	}
	return offices, nil
}

// ReadPostOffice возвращает отделение по id.
func (s *Storage) ReadPostOffice(ctx context.Context, id int64) (models.PostOffice, error) {
	const op = "storage.ReadPostOffice"

	var p models.PostOffice
	q := s.builder.Select(append([]string{"id"}, officeFields...)...).From("post_offices").Where(squirrel.Eq{"id": id})
	if err := s.get(ctx, op, "post office", &p, q); err != nil {
		return models.PostOffice{}, err
	}
	return p, nil
}

// CreatePostOffice сохраняет отделение и возвращает его id.
func (s *Storage) CreatePostOffice(ctx context.Context, p models.PostOffice) (int64, error) {
	const op = "storage.CreatePostOffice"

	q := s.builder.Insert("post_offices").Columns(officeFields...).Values(p.Address, p.PostalIndex)
	return s.insert(ctx, op, q)
}

// UpdatePostOffice перезаписывает данные отделения.
func (s *Storage) UpdatePostOffice(ctx context.Context, id int64, p models.PostOffice) error {
	const op = "storage.UpdatePostOffice"

	q := s.builder.Update("post_offices").
		Set("address", p.Address).
		Set("postal_index", p.PostalIndex).
		Where(squirrel.Eq{"id": id})
	return s.exec(ctx, op, "post office", q)
}

// RemovePostOffice удаляет отделение вместе со связанными отправлениями.
func (s *Storage) RemovePostOffice(ctx context.Context, id int64) error {
	const op = "storage.RemovePostOffice"

	return s.exec(ctx, op, "post office", s.builder.Delete("post_offices").Where(squirrel.Eq{"id": id}))
}

// BulkCreatePostOffices вставляет отделения одним запросом: либо все, либо ни одного.
func (s *Storage) BulkCreatePostOffices(ctx context.Context, offices []models.PostOffice) (int, error) {
	const op = "storage.BulkCreatePostOffices"
	if len(offices) == 0 {
		return 0, nil
	}

	q := s.builder.Insert("post_offices").Columns(officeFields...)
	for _, p := range offices {
		q = q.Values(p.Address, p.PostalIndex)
	}
	return s.bulkInsert(ctx, op, q)
}

func (s *Storage) bulkInsert(ctx context.Context, op string, q squirrel.InsertBuilder) (int, error) {
	if err := checkContext(ctx, op); err != nil {
		return 0, err
	}
	query, args, err := s.toSQL(op, q)
	if err != nil {
		return 0, err
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, constraintError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}
