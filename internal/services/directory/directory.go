// Package directory содержит бизнес-логику справочников: клиентов и почтовых отделений.
package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/lib/validation"
	"github.com/magabrotheeeer/letters-packages/internal/models"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

// Repository определяет методы хранилища справочников.
type Repository interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ReadClient(ctx context.Context, id int64) (models.Client, error)
	CreateClient(ctx context.Context, c models.Client) (int64, error)
	UpdateClient(ctx context.Context, id int64, c models.Client) error
	RemoveClient(ctx context.Context, id int64) error

	ListPostOffices(ctx context.Context) ([]models.PostOffice, error)
	ReadPostOffice(ctx context.Context, id int64) (models.PostOffice, error)
	CreatePostOffice(ctx context.Context, p models.PostOffice) (int64, error)
	UpdatePostOffice(ctx context.Context, id int64, p models.PostOffice) error
	RemovePostOffice(ctx context.Context, id int64) error
}

// Cache сбрасывает кеш отправлений, в которых отображаются клиенты и отделения.
type Cache interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Service управляет клиентами и почтовыми отделениями.
type Service struct {
	repo     Repository
	cache    Cache
	log      *slog.Logger
	validate *validator.Validate
}

// New создаёт сервис справочников.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		log:      log,
		validate: validation.New(),
	}
}

// ListClients возвращает всех клиентов.
func (s *Service) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("services.directory.ListClients: %w", err)
	}
	return clients, nil
}

// ReadClient возвращает клиента по id.
func (s *Service) ReadClient(ctx context.Context, id int64) (models.Client, error) {
	c, err := s.repo.ReadClient(ctx, id)
	if err != nil {
		return models.Client{}, fmt.Errorf("services.directory.ReadClient: %w", err)
	}
	return c, nil
}

// CreateClient проверяет и сохраняет клиента.
func (s *Service) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	const op = "services.directory.CreateClient"

	if err := validation.Struct(s.validate, c); err != nil {
		return models.Client{}, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreateClient(ctx, c)
	if err != nil {
		return models.Client{}, fmt.Errorf("%s: %w", op, err)
	}
	c.ID = id
	s.log.Info("client created", slog.Int64("id", id))
	return c, nil
}

// ReplaceClient полностью заменяет данные клиента.
func (s *Service) ReplaceClient(ctx context.Context, id int64, c models.Client) (models.Client, error) {
	const op = "services.directory.ReplaceClient"

	if _, err := s.repo.ReadClient(ctx, id); err != nil {
		return models.Client{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validation.Struct(s.validate, c); err != nil {
		return models.Client{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateClient(ctx, id, c); err != nil {
		return models.Client{}, fmt.Errorf("%s: %w", op, err)
	}
	c.ID = id
	s.invalidateShipments(ctx)
	return c, nil
}

// RemoveClient удаляет клиента; письма и посылки с его участием удаляются хранилищем.
func (s *Service) RemoveClient(ctx context.Context, id int64) error {
	if err := s.repo.RemoveClient(ctx, id); err != nil {
		return fmt.Errorf("services.directory.RemoveClient: %w", err)
	}
	s.invalidateShipments(ctx)
	return nil
}

// ListPostOffices возвращает все почтовые отделения.
func (s *Service) ListPostOffices(ctx context.Context) ([]models.PostOffice, error) {
	offices, err := s.repo.ListPostOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("services.directory.ListPostOffices: %w", err)
	}
	return offices, nil
}

// ReadPostOffice возвращает отделение по id.
func (s *Service) ReadPostOffice(ctx context.Context, id int64) (models.PostOffice, error) {
	p, err := s.repo.ReadPostOffice(ctx, id)
	if err != nil {
		return models.PostOffice{}, fmt.Errorf("services.directory.ReadPostOffice: %w", err)
	}
	return p, nil
}

// CreatePostOffice проверяет и сохраняет отделение.
func (s *Service) CreatePostOffice(ctx context.Context, p models.PostOffice) (models.PostOffice, error) {
	const op = "services.directory.CreatePostOffice"

	if err := validation.Struct(s.validate, p); err != nil {
		return models.PostOffice{}, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreatePostOffice(ctx, p)
	if err != nil {
		return models.PostOffice{}, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id
	s.log.Info("post office created", slog.Int64("id", id))
	return p, nil
}

// ReplacePostOffice полностью заменяет данные отделения.
func (s *Service) ReplacePostOffice(ctx context.Context, id int64, p models.PostOffice) (models.PostOffice, error) {
	const op = "services.directory.ReplacePostOffice"

	if _, err := s.repo.ReadPostOffice(ctx, id); err != nil {
		return models.PostOffice{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validation.Struct(s.validate, p); err != nil {
		return models.PostOffice{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdatePostOffice(ctx, id, p); err != nil {
		return models.PostOffice{}, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id
	s.invalidateShipments(ctx)
	return p, nil
}

// RemovePostOffice удаляет отделение; связанные отправления удаляются хранилищем.
func (s *Service) RemovePostOffice(ctx context.Context, id int64) error {
	if err := s.repo.RemovePostOffice(ctx, id); err != nil {
		return fmt.Errorf("services.directory.RemovePostOffice: %w", err)
	}
	s.invalidateShipments(ctx)
	return nil
}

// invalidateShipments сбрасывает кеш писем и посылок: в них отображаются ФИО и адреса.
func (s *Service) invalidateShipments(ctx context.Context) {
	for _, k := range []shipment.Kind{shipment.Letter, shipment.Package} {
		if err := s.cache.InvalidatePrefix(ctx, k.Table+":"); err != nil {
			s.log.Warn("failed to invalidate shipments cache", slog.String("kind", k.Name), sl.Err(err))
		}
	}
}
