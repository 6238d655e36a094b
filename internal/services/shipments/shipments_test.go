package shipments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/letters-packages/internal/models"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListShipments(ctx context.Context, k shipment.Kind, filter models.ShipmentFilter) ([]shipment.Row, error) {
	args := m.Called(ctx, k.Name, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipment.Row), args.Error(1)
}

func (m *RepoMock) ReadShipment(ctx context.Context, k shipment.Kind, id int64) (shipment.Row, error) {
	args := m.Called(ctx, k.Name, id)
	return args.Get(0).(shipment.Row), args.Error(1)
}

func (m *RepoMock) CreateShipment(ctx context.Context, k shipment.Kind, f shipment.Fields) (int64, error) {
	args := m.Called(ctx, k.Name, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) UpdateShipment(ctx context.Context, k shipment.Kind, id int64, f shipment.Fields) error {
	return m.Called(ctx, k.Name, id, f).Error(0)
}

func (m *RepoMock) RemoveShipment(ctx context.Context, k shipment.Kind, id int64) error {
	return m.Called(ctx, k.Name, id).Error(0)
}

func (m *RepoMock) MissingClients(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *RepoMock) MissingPostOffices(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testRow(id int64, f shipment.Fields) shipment.Row {
	return shipment.Row{
		ID:        id,
		Category:  f.Category,
		Amount:    f.Amount,
		Sender:    models.Client{ID: f.Sender, Name: "Иван", Lastname: "Иванов", PhoneNumber: "+71111111111"},
		Recipient: models.Client{ID: f.Recipient, Name: "Пётр", Lastname: "Петров", PhoneNumber: "+72222222222"},
		Departure: models.PostOffice{ID: f.DepartureOffice, Address: "address_1", PostalIndex: "111111"},
		Arrival:   models.PostOffice{ID: f.ArrivalOffice, Address: "address_2", PostalIndex: "222222"},
	}
}

func body(t *testing.T, raw string) map[string]json.RawMessage {
	t.Helper()
	var b map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return b
}

var validFields = shipment.Fields{Sender: 1, Recipient: 2, DepartureOffice: 1, ArrivalOffice: 2, Category: 1, Amount: 100}

const validBody = `{"sender":1,"recipient":2,"departure_office":1,"arrival_office":2,"category":1,"weight":100}`

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    bool
		wantFields map[string][]string
		wantNon    []string
	}{
		{
			name: "успешное создание",
			body: validBody,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("MissingClients", mock.Anything, []int64{1, 2}).Return(nil, nil).Once()
				r.On("MissingPostOffices", mock.Anything, []int64{1, 2}).Return(nil, nil).Once()
				r.On("CreateShipment", mock.Anything, "letter", validFields).Return(int64(42), nil).Once()
				r.On("ReadShipment", mock.Anything, "letter", int64(42)).Return(testRow(42, validFields), nil).Once()
				c.On("Set", mock.Anything, "letters:42", mock.Anything, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "ошибка кеша не мешает созданию",
			body: validBody,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("MissingClients", mock.Anything, mock.Anything).Return(nil, nil).Once()
				r.On("MissingPostOffices", mock.Anything, mock.Anything).Return(nil, nil).Once()
				r.On("CreateShipment", mock.Anything, "letter", validFields).Return(int64(42), nil).Once()
				r.On("ReadShipment", mock.Anything, "letter", int64(42)).Return(testRow(42, validFields), nil).Once()
				c.On("Set", mock.Anything, "letters:42", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()
			},
		},
		{
			name:       "одинаковые отправитель и получатель",
			body:       `{"sender":1,"recipient":1,"departure_office":1,"arrival_office":2,"category":1,"weight":100}`,
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    true,
			wantNon:    []string{shipment.MsgSameClients},
		},
		{
			name:       "нечисловой вес",
			body:       `{"sender":1,"recipient":2,"departure_office":1,"arrival_office":2,"category":1,"weight":"heavy"}`,
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    true,
			wantFields: map[string][]string{"weight": {shipment.MsgNotInteger}},
		},
		{
			name: "несуществующий получатель",
			body: `{"sender":1,"recipient":7,"departure_office":1,"arrival_office":2,"category":1,"weight":100}`,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("MissingClients", mock.Anything, []int64{1, 7}).Return([]int64{7}, nil).Once()
				r.On("MissingPostOffices", mock.Anything, []int64{1, 2}).Return(nil, nil).Once()
			},
			wantErr: true,
			wantFields: map[string][]string{
				"recipient": {`Недопустимый первичный ключ "7" - объект не существует.`},
			},
		},
		{
			name: "ошибка хранилища",
			body: validBody,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("MissingClients", mock.Anything, mock.Anything).Return(nil, nil).Once()
				r.On("MissingPostOffices", mock.Anything, mock.Anything).Return(nil, nil).Once()
				r.On("CreateShipment", mock.Anything, "letter", validFields).Return(int64(0), errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			tt.setupMocks(repo, cache)
			svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())

			view, err := svc.Create(context.Background(), body(t, tt.body))

			if tt.wantErr {
				require.Error(t, err)
				var verr *models.ValidationError
				if tt.wantFields != nil || tt.wantNon != nil {
					require.True(t, errors.As(err, &verr))
					if tt.wantFields != nil {
						assert.Equal(t, tt.wantFields, verr.Fields)
					}
					assert.Equal(t, tt.wantNon, verr.NonField)
				} else {
					assert.False(t, errors.As(err, &verr))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(42), view.ID)
				assert.Equal(t, "Письмо", view.Category)
				assert.Equal(t, "Иванов Иван", view.Sender)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_Read(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "из кеша",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "packages:5", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
					row := args.Get(2).(*shipment.Row)
					*row = testRow(5, validFields)
				}).Once()
			},
		},
		{
			name: "из хранилища",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "packages:5", mock.Anything).Return(false, nil).Once()
				r.On("ReadShipment", mock.Anything, "package", int64(5)).Return(testRow(5, validFields), nil).Once()
				c.On("Set", mock.Anything, "packages:5", mock.Anything, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "кеш недоступен",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "packages:5", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("ReadShipment", mock.Anything, "package", int64(5)).Return(testRow(5, validFields), nil).Once()
				c.On("Set", mock.Anything, "packages:5", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "не найдено",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "packages:5", mock.Anything).Return(false, nil).Once()
				r.On("ReadShipment", mock.Anything, "package", int64(5)).
					Return(shipment.Row{}, models.NewError("package", models.ErrNotFound)).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			tt.setupMocks(repo, cache)
			svc := New(shipment.Package, repo, cache, time.Hour, newNoopLogger())

			view, err := svc.Read(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(5), view.ID)
				assert.Equal(t, "+72222222222", view.PhoneNumber)
				assert.Equal(t, "Мелкий пакет", view.Category)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_Patch(t *testing.T) {
	existing := shipment.Fields{Sender: 1, Recipient: 2, DepartureOffice: 3, ArrivalOffice: 4, Category: 2, Amount: 50}

	t.Run("только категория", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		want := existing
		want.Category = 3

		repo.On("ReadShipment", mock.Anything, "letter", int64(9)).Return(testRow(9, existing), nil).Once()
		repo.On("MissingClients", mock.Anything, []int64{}).Return(nil, nil).Once()
		repo.On("MissingPostOffices", mock.Anything, []int64{}).Return(nil, nil).Once()
		repo.On("UpdateShipment", mock.Anything, "letter", int64(9), want).Return(nil).Once()
		repo.On("ReadShipment", mock.Anything, "letter", int64(9)).Return(testRow(9, want), nil).Once()
		cache.On("Set", mock.Anything, "letters:9", mock.Anything, time.Hour).Return(nil).Once()

		svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())
		view, err := svc.Patch(context.Background(), 9, body(t, `{"category":3}`))
		require.NoError(t, err)

		assert.Equal(t, "Ценное письмо", view.Category)
		assert.Equal(t, 50, view.Amount)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("получатель совпадает с сохранённым отправителем", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("ReadShipment", mock.Anything, "letter", int64(9)).Return(testRow(9, existing), nil).Once()

		svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())
		_, err := svc.Patch(context.Background(), 9, body(t, `{"recipient":1}`))

		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{shipment.MsgSameClients}, verr.NonField)
		repo.AssertNotCalled(t, "UpdateShipment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("запись не найдена", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("ReadShipment", mock.Anything, "letter", int64(9)).
			Return(shipment.Row{}, models.NewError("letter", models.ErrNotFound)).Once()

		svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())
		_, err := svc.Patch(context.Background(), 9, body(t, `{"category":3}`))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestService_Replace(t *testing.T) {
	t.Run("не найдено раньше проверки тела", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("ReadShipment", mock.Anything, "letter", int64(3)).
			Return(shipment.Row{}, models.NewError("letter", models.ErrNotFound)).Once()

		svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())
		_, err := svc.Replace(context.Background(), 3, body(t, `{}`))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("неполное тело", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("ReadShipment", mock.Anything, "letter", int64(3)).Return(testRow(3, validFields), nil).Once()

		svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())
		_, err := svc.Replace(context.Background(), 3, body(t, `{"category":2}`))

		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "sender")
		assert.Contains(t, verr.Fields, "weight")
		assert.NotContains(t, verr.Fields, "category")
	})

	t.Run("успешная замена", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("ReadShipment", mock.Anything, "letter", int64(3)).Return(testRow(3, validFields), nil).Twice()
		repo.On("MissingClients", mock.Anything, []int64{1, 2}).Return(nil, nil).Once()
		repo.On("MissingPostOffices", mock.Anything, []int64{1, 2}).Return(nil, nil).Once()
		repo.On("UpdateShipment", mock.Anything, "letter", int64(3), validFields).Return(nil).Once()
		cache.On("Set", mock.Anything, "letters:3", mock.Anything, time.Hour).Return(nil).Once()

		svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())
		view, err := svc.Replace(context.Background(), 3, body(t, validBody))
		require.NoError(t, err)
		assert.Equal(t, int64(3), view.ID)
		repo.AssertExpectations(t)
	})
}

func TestService_Remove(t *testing.T) {
	t.Run("успешное удаление", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("RemoveShipment", mock.Anything, "package", int64(4)).Return(nil).Once()
		cache.On("Invalidate", mock.Anything, "packages:4").Return(nil).Once()

		svc := New(shipment.Package, repo, cache, time.Hour, newNoopLogger())
		require.NoError(t, svc.Remove(context.Background(), 4))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("не найдено", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		repo.On("RemoveShipment", mock.Anything, "package", int64(4)).
			Return(models.NewError("package", models.ErrNotFound)).Once()

		svc := New(shipment.Package, repo, cache, time.Hour, newNoopLogger())
		assert.ErrorIs(t, svc.Remove(context.Background(), 4), models.ErrNotFound)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestService_List(t *testing.T) {
	repo, cache := new(RepoMock), new(CacheMock)
	filter := models.ShipmentFilter{Category: 1, Search: "address"}
	repo.On("ListShipments", mock.Anything, "letter", filter).
		Return([]shipment.Row{testRow(1, validFields), testRow(2, validFields)}, nil).Once()

	svc := New(shipment.Letter, repo, cache, time.Hour, newNoopLogger())
	views, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "address_1", views[1].DepartureOffice)
	assert.Equal(t, shipment.Letter, svc.Kind())
}
