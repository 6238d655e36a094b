// Package importer загружает справочники клиентов и почтовых отделений из CSV-файлов.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/lib/validation"
	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// Имена файлов в каталоге данных.
const (
	ClientsFile     = "clients.csv"
	PostOfficesFile = "post_offices.csv"
)

// Separator разделитель полей в CSV.
const Separator = ';'

// Repository сохраняет записи одной пачкой: либо все, либо ни одной.
type Repository interface {
	BulkCreateClients(ctx context.Context, clients []models.Client) (int, error)
	BulkCreatePostOffices(ctx context.Context, offices []models.PostOffice) (int, error)
}

// Result итог загрузки одного файла.
type Result struct {
	File     string
	Inserted int
	Err      error
}

// Service выполняет импорт.
type Service struct {
	repo     Repository
	log      *slog.Logger
	validate *validator.Validate
}

// New создаёт сервис импорта.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		log:      log,
		validate: validation.New(),
	}
}

// Run загружает clients.csv и post_offices.csv из каталога dir.
// Ошибка одного файла не мешает загрузке следующего.
func (s *Service) Run(ctx context.Context, dir string) []Result {
	batch := uuid.NewString()
	log := s.log.With(slog.String("batch_id", batch), slog.String("dir", dir))

	results := []Result{
		s.importClients(ctx, filepath.Join(dir, ClientsFile)),
		s.importPostOffices(ctx, filepath.Join(dir, PostOfficesFile)),
	}
	for _, r := range results {
		if r.Err != nil {
			log.Error("import failed", slog.String("file", r.File), sl.Err(r.Err))
			continue
		}
		log.Info("import finished", slog.String("file", r.File), slog.Int("inserted", r.Inserted))
	}
	return results
}

func (s *Service) importClients(ctx context.Context, path string) Result {
	const op = "services.importer.importClients"

	res := Result{File: filepath.Base(path)}
	records, err := readRecords(path)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", op, err)
		return res
	}

	clients := make([]models.Client, 0, len(records))
	for i, rec := range records {
		c := models.Client{
			Name:        rec["name"],
			Lastname:    rec["lastname"],
			PhoneNumber: rec["phone_number"],
		}
		if m := rec["middle_name"]; m != "" {
			c.MiddleName = &m
		}
		if err := validation.Struct(s.validate, c); err != nil {
			res.Err = fmt.Errorf("%s: row %d: %w", op, i+2, err)
			return res
		}
		clients = append(clients, c)
	}

	res.Inserted, err = s.repo.BulkCreateClients(ctx, clients)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", op, err)
	}
	return res
}

func (s *Service) importPostOffices(ctx context.Context, path string) Result {
	const op = "services.importer.importPostOffices"

	res := Result{File: filepath.Base(path)}
	records, err := readRecords(path)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", op, err)
		return res
	}

	offices := make([]models.PostOffice, 0, len(records))
	for i, rec := range records {
		p := models.PostOffice{
			Address:     rec["address"],
			PostalIndex: rec["postal_index"],
		}
		if err := validation.Struct(s.validate, p); err != nil {
			res.Err = fmt.Errorf("%s: row %d: %w", op, i+2, err)
			return res
		}
		offices = append(offices, p)
	}

	res.Inserted, err = s.repo.BulkCreatePostOffices(ctx, offices)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", op, err)
	}
	return res
}

// readRecords читает CSV с заголовком и возвращает строки в виде "колонка -> значение".
// Неизвестные колонки, например id, игнорируются вызывающим кодом.
func readRecords(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = Separator
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var records []map[string]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
