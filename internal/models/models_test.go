package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FullName(t *testing.T) {
	middle := "Петрович"
	empty := ""

	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name:   "с отчеством",
			client: Client{Name: "Иван", Lastname: "Иванов", MiddleName: &middle},
			want:   "Иванов Иван Петрович",
		},
		{
			name:   "без отчества",
			client: Client{Name: "Иван", Lastname: "Иванов"},
			want:   "Иванов Иван",
		},
		{
			name:   "пустое отчество",
			client: Client{Name: "Иван", Lastname: "Иванов", MiddleName: &empty},
			want:   "Иванов Иван",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.client.FullName())
		})
	}
}

func TestNewError(t *testing.T) {
	err := NewError("Letter", ErrNotFound)
	assert.EqualError(t, err, "letter: not found")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	require.True(t, verr.Empty())

	verr.Add("weight", "too light")
	verr.AddNonField("pair")

	other := NewValidationError()
	other.Add("category", "unknown")
	verr.Merge(other)

	assert.False(t, verr.Empty())
	assert.Equal(t, map[string][]string{
		"weight":       {"too light"},
		"category":     {"unknown"},
		NonFieldErrors: {"pair"},
	}, verr.Map())
	assert.Equal(t, "validation failed: category: unknown; weight: too light; pair", verr.Error())

	var target *ValidationError
	assert.True(t, errors.As(NewError("letter", verr), &target))
}
