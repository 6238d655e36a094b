package shipment

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/letters-packages/internal/models"
)

func ptr[T any](v T) *T { return &v }

func validInput() Input {
	return Input{
		Sender:          ptr(int64(1)),
		Recipient:       ptr(int64(2)),
		DepartureOffice: ptr(int64(1)),
		ArrivalOffice:   ptr(int64(2)),
		Category:        ptr(1),
		Amount:          ptr(100),
	}
}

func TestValidate_Create(t *testing.T) {
	tests := []struct {
		name         string
		kind         Kind
		input        func() Input
		wantFields   map[string][]string
		wantNonField []string
	}{
		{
			name:  "валидное письмо",
			kind:  Letter,
			input: validInput,
		},
		{
			name:  "валидная посылка с максимальной категорией",
			kind:  Package,
			input: func() Input { in := validInput(); in.Category = ptr(6); return in },
		},
		{
			name:         "одинаковые отправитель и получатель",
			kind:         Letter,
			input:        func() Input { in := validInput(); in.Recipient = ptr(int64(1)); return in },
			wantNonField: []string{MsgSameClients},
		},
		{
			name:         "одинаковые отделения",
			kind:         Package,
			input:        func() Input { in := validInput(); in.ArrivalOffice = ptr(int64(1)); return in },
			wantNonField: []string{MsgSameOffices},
		},
		{
			name:       "категория вне перечисления письма",
			kind:       Letter,
			input:      func() Input { in := validInput(); in.Category = ptr(5); return in },
			wantFields: map[string][]string{"category": {"Значения 5 нет среди допустимых вариантов."}},
		},
		{
			name:       "нулевой вес",
			kind:       Letter,
			input:      func() Input { in := validInput(); in.Amount = ptr(0); return in },
			wantFields: map[string][]string{"weight": {Letter.AmountMessage}},
		},
		{
			name:       "отрицательная стоимость",
			kind:       Package,
			input:      func() Input { in := validInput(); in.Amount = ptr(-5); return in },
			wantFields: map[string][]string{"cost": {Package.AmountMessage}},
		},
		{
			name:  "пустой запрос",
			kind:  Letter,
			input: func() Input { return Input{} },
			wantFields: map[string][]string{
				"sender":           {MsgRequired},
				"recipient":        {MsgRequired},
				"departure_office": {MsgRequired},
				"arrival_office":   {MsgRequired},
				"category":         {MsgRequired},
				"weight":           {MsgRequired},
			},
		},
		{
			name: "ошибки полей и пар вместе",
			kind: Package,
			input: func() Input {
				in := validInput()
				in.Recipient = ptr(int64(1))
				in.ArrivalOffice = ptr(int64(1))
				in.Amount = ptr(0)
				return in
			},
			wantFields:   map[string][]string{"cost": {Package.AmountMessage}},
			wantNonField: []string{MsgSameClients, MsgSameOffices},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input()
			got, err := Validate(tt.kind, in, nil)

			if tt.wantFields == nil && tt.wantNonField == nil {
				require.NoError(t, err)
				assert.Equal(t, *in.Sender, got.Sender)
				assert.Equal(t, *in.Recipient, got.Recipient)
				assert.Equal(t, *in.Category, got.Category)
				assert.Equal(t, *in.Amount, got.Amount)
				return
			}

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, verr.Fields)
			} else {
				assert.Empty(t, verr.Fields)
			}
			assert.Equal(t, tt.wantNonField, verr.NonField)
		})
	}
}

func TestValidate_Partial(t *testing.T) {
	existing := Fields{Sender: 1, Recipient: 2, DepartureOffice: 3, ArrivalOffice: 4, Category: 2, Amount: 50}

	t.Run("только категория", func(t *testing.T) {
		got, err := Validate(Letter, Input{Category: ptr(3)}, &existing)
		require.NoError(t, err)

		want := existing
		want.Category = 3
		assert.Equal(t, want, got)
	})

	t.Run("получатель совпадает с сохранённым отправителем", func(t *testing.T) {
		_, err := Validate(Letter, Input{Recipient: ptr(int64(1))}, &existing)

		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{MsgSameClients}, verr.NonField)
	})

	t.Run("пункт отправления совпадает с сохранённым пунктом получения", func(t *testing.T) {
		_, err := Validate(Package, Input{DepartureOffice: ptr(int64(4))}, &existing)

		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{MsgSameOffices}, verr.NonField)
	})

	t.Run("сохранённая пара не перепроверяется", func(t *testing.T) {
		broken := Fields{Sender: 1, Recipient: 1, DepartureOffice: 3, ArrivalOffice: 3, Category: 1, Amount: 1}

		got, err := Validate(Letter, Input{Amount: ptr(7)}, &broken)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Amount)
	})

	t.Run("недопустимая категория", func(t *testing.T) {
		_, err := Validate(Letter, Input{Category: ptr(0)}, &existing)

		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "category")
	})
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name       string
		kind       Kind
		body       string
		want       Input
		wantFields map[string][]string
	}{
		{
			name: "все поля письма",
			kind: Letter,
			body: `{"sender":1,"recipient":2,"departure_office":3,"arrival_office":4,"category":2,"weight":100}`,
			want: Input{
				Sender:          ptr(int64(1)),
				Recipient:       ptr(int64(2)),
				DepartureOffice: ptr(int64(3)),
				ArrivalOffice:   ptr(int64(4)),
				Category:        ptr(2),
				Amount:          ptr(100),
			},
		},
		{
			name: "поля представления игнорируются",
			kind: Package,
			body: `{"id":9,"departure_index":"123456","phone_number":"+71111111111","cost":"15","weight":3}`,
			want: Input{Amount: ptr(15)},
		},
		{
			name: "нечисловые значения",
			kind: Letter,
			body: `{"sender":"abc","category":1.5,"weight":null,"recipient":[1]}`,
			wantFields: map[string][]string{
				"sender":    {MsgNotInteger},
				"category":  {MsgNotInteger},
				"weight":    {MsgNull},
				"recipient": {MsgNotInteger},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(tt.body), &body))

			got, err := ParseInput(tt.kind, body)
			if tt.wantFields != nil {
				var verr *models.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantFields, verr.Fields)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInput_References(t *testing.T) {
	in := Input{Sender: ptr(int64(5)), ArrivalOffice: ptr(int64(7))}

	assert.Equal(t, []int64{5}, in.Clients())
	assert.Equal(t, []int64{7}, in.PostOffices())
}
