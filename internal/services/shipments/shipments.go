// Package shipments содержит бизнес-логику писем и посылок: разбор и
// проверку входных данных, проверку ссылок на клиентов и отделения,
// сохранение, кеширование и представление записей.
package shipments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/models"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

var rejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shipment_rejections_total",
	Help: "Количество отклонённых запросов на запись писем и посылок.",
}, []string{"kind", "reason"})

// Repository определяет методы хранилища, необходимые сервису.
type Repository interface {
	// ListShipments возвращает отправления вида k по фильтру.
	ListShipments(ctx context.Context, k shipment.Kind, filter models.ShipmentFilter) ([]shipment.Row, error)
	// ReadShipment возвращает отправление по id или models.ErrNotFound.
	ReadShipment(ctx context.Context, k shipment.Kind, id int64) (shipment.Row, error)
	// CreateShipment сохраняет отправление и возвращает его id.
	CreateShipment(ctx context.Context, k shipment.Kind, f shipment.Fields) (int64, error)
	// UpdateShipment перезаписывает отправление.
	UpdateShipment(ctx context.Context, k shipment.Kind, id int64, f shipment.Fields) error
	// RemoveShipment удаляет отправление.
	RemoveShipment(ctx context.Context, k shipment.Kind, id int64) error
	// MissingClients возвращает несуществующие id клиентов.
	MissingClients(ctx context.Context, ids []int64) ([]int64, error)
	// MissingPostOffices возвращает несуществующие id отделений.
	MissingPostOffices(ctx context.Context, ids []int64) ([]int64, error)
}

// Cache описывает методы кеша.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service обслуживает отправления одного вида.
type Service struct {
	kind   shipment.Kind
	repo   Repository
	cache  Cache
	ttl    time.Duration
	log    *slog.Logger
	tracer trace.Tracer
}

// New создаёт сервис для вида kind.
func New(kind shipment.Kind, repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		kind:   kind,
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		log:    log.With(slog.String("kind", kind.Name)),
		tracer: otel.Tracer("github.com/magabrotheeeer/letters-packages/internal/services/shipments"),
	}
}

// Kind возвращает вид отправлений сервиса.
func (s *Service) Kind() shipment.Kind {
	return s.kind
}

// CacheKey возвращает ключ кеша для отправления вида k.
func CacheKey(k shipment.Kind, id int64) string {
	return fmt.Sprintf("%s:%d", k.Table, id)
}

// List возвращает представления отправлений по фильтру.
func (s *Service) List(ctx context.Context, filter models.ShipmentFilter) ([]shipment.View, error) {
	const op = "services.shipments.List"

	rows, err := s.repo.ListShipments(ctx, s.kind, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return shipment.ProjectAll(s.kind, rows), nil
}

// Read возвращает представление отправления, используя кеш или хранилище.
func (s *Service) Read(ctx context.Context, id int64) (shipment.View, error) {
	const op = "services.shipments.Read"

	key := CacheKey(s.kind, id)
	var row shipment.Row
	found, err := s.cache.Get(ctx, key, &row)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return shipment.Project(s.kind, row), nil
	}

	row, err = s.repo.ReadShipment(ctx, s.kind, id)
	if err != nil {
		return shipment.View{}, fmt.Errorf("%s: %w", op, err)
	}
	s.remember(ctx, row)
	return shipment.Project(s.kind, row), nil
}

// Create проверяет тело запроса и создаёт отправление.
func (s *Service) Create(ctx context.Context, body map[string]json.RawMessage) (shipment.View, error) {
	const op = "services.shipments.Create"
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	fields, err := s.check(ctx, body, nil)
	if err != nil {
		return shipment.View{}, s.reject(span, op, err)
	}

	id, err := s.repo.CreateShipment(ctx, s.kind, fields)
	if err != nil {
		return shipment.View{}, s.fail(span, op, err)
	}
	span.SetAttributes(attribute.Int64("id", id))
	s.log.Info("shipment created", slog.Int64("id", id))

	return s.reload(ctx, span, op, id)
}

// Replace полностью заменяет отправление id.
func (s *Service) Replace(ctx context.Context, id int64, body map[string]json.RawMessage) (shipment.View, error) {
	const op = "services.shipments.Replace"
	ctx, span := s.startSpan(ctx, "Replace", attribute.Int64("id", id))
	defer span.End()

	if _, err := s.repo.ReadShipment(ctx, s.kind, id); err != nil {
		return shipment.View{}, s.fail(span, op, err)
	}

	fields, err := s.check(ctx, body, nil)
	if err != nil {
		return shipment.View{}, s.reject(span, op, err)
	}
	if err := s.repo.UpdateShipment(ctx, s.kind, id, fields); err != nil {
		return shipment.View{}, s.fail(span, op, err)
	}
	s.log.Info("shipment replaced", slog.Int64("id", id))

	return s.reload(ctx, span, op, id)
}

// Patch обновляет переданные поля отправления id, остальные берутся из сохранённой записи.
func (s *Service) Patch(ctx context.Context, id int64, body map[string]json.RawMessage) (shipment.View, error) {
	const op = "services.shipments.Patch"
	ctx, span := s.startSpan(ctx, "Patch", attribute.Int64("id", id))
	defer span.End()

	existing, err := s.repo.ReadShipment(ctx, s.kind, id)
	if err != nil {
		return shipment.View{}, s.fail(span, op, err)
	}

	current := existing.Fields()
	fields, err := s.check(ctx, body, &current)
	if err != nil {
		return shipment.View{}, s.reject(span, op, err)
	}
	if err := s.repo.UpdateShipment(ctx, s.kind, id, fields); err != nil {
		return shipment.View{}, s.fail(span, op, err)
	}
	s.log.Info("shipment patched", slog.Int64("id", id))

	return s.reload(ctx, span, op, id)
}

// Remove удаляет отправление и его запись в кеше.
func (s *Service) Remove(ctx context.Context, id int64) error {
	const op = "services.shipments.Remove"

	if err := s.repo.RemoveShipment(ctx, s.kind, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := CacheKey(s.kind, id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
	s.log.Info("shipment removed", slog.Int64("id", id))
	return nil
}

// check разбирает и проверяет тело запроса, затем проверяет существование
// переданных клиентов и отделений.
func (s *Service) check(ctx context.Context, body map[string]json.RawMessage, existing *shipment.Fields) (shipment.Fields, error) {
	in, err := shipment.ParseInput(s.kind, body)
	if err != nil {
		return shipment.Fields{}, err
	}
	fields, err := shipment.Validate(s.kind, in, existing)
	if err != nil {
		return shipment.Fields{}, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return shipment.Fields{}, err
	}
	return fields, nil
}

func (s *Service) checkReferences(ctx context.Context, in shipment.Input) error {
	clients, err := s.repo.MissingClients(ctx, in.Clients())
	if err != nil {
		return err
	}
	offices, err := s.repo.MissingPostOffices(ctx, in.PostOffices())
	if err != nil {
		return err
	}

	verr := models.NewValidationError()
	addMissing(verr, "sender", in.Sender, clients)
	addMissing(verr, "recipient", in.Recipient, clients)
	addMissing(verr, "departure_office", in.DepartureOffice, offices)
	addMissing(verr, "arrival_office", in.ArrivalOffice, offices)
	if !verr.Empty() {
		return verr
	}
	return nil
}

func addMissing(verr *models.ValidationError, field string, id *int64, missing []int64) {
	if id == nil {
		return
	}
	for _, m := range missing {
		if m == *id {
			verr.Add(field, fmt.Sprintf("Недопустимый первичный ключ \"%d\" - объект не существует.", *id))
			return
		}
	}
}

func (s *Service) reload(ctx context.Context, span trace.Span, op string, id int64) (shipment.View, error) {
	row, err := s.repo.ReadShipment(ctx, s.kind, id)
	if err != nil {
		return shipment.View{}, s.fail(span, op, err)
	}
	s.remember(ctx, row)
	return shipment.Project(s.kind, row), nil
}

func (s *Service) remember(ctx context.Context, row shipment.Row) {
	key := CacheKey(s.kind, row.ID)
	if err := s.cache.Set(ctx, key, row, s.ttl); err != nil {
		s.log.Warn("failed to cache shipment", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("kind", s.kind.Name))
	return s.tracer.Start(ctx, "shipments."+name, trace.WithAttributes(attrs...))
}

// reject учитывает отклонённый запрос. Ошибки проверки возвращаются как есть.
func (s *Service) reject(span trace.Span, op string, err error) error {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return s.fail(span, op, err)
	}

	reason := "field"
	if len(verr.NonField) > 0 {
		reason = "invariant"
	}
	rejections.WithLabelValues(s.kind.Name, reason).Inc()
	span.SetStatus(codes.Error, "validation failed")
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) fail(span trace.Span, op string, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return s.reject(span, op, err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%s: %w", op, err)
}
