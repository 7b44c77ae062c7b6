package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		ID:           uuid.New(),
		Street:       "Rua das Flores",
		Number:       "123",
		Neighborhood: "Centro",
		City:         "Sao Paulo",
		State:        "SP",
		PostalCode:   "01310-100",
	}
}

func TestValid(t *testing.T) {
	a := validAddress()
	assert.True(t, a.Valid())

	a = validAddress()
	a.Complement = "" // complement is optional
	assert.True(t, a.Valid())

	a = validAddress()
	a.PostalCode = "01310100" // hyphen is optional
	assert.True(t, a.Valid())
}

func TestValid_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Address)
	}{
		{"missing street", func(a *Address) { a.Street = "" }},
		{"missing number", func(a *Address) { a.Number = "" }},
		{"missing neighborhood", func(a *Address) { a.Neighborhood = "" }},
		{"missing city", func(a *Address) { a.City = "" }},
		{"long state", func(a *Address) { a.State = "SPX" }},
		{"short postal code", func(a *Address) { a.PostalCode = "0131" }},
		{"letters in postal code", func(a *Address) { a.PostalCode = "01310-abc" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAddress()
			tc.mutate(&a)
			assert.False(t, a.Valid())
		})
	}
}

func TestPickDefault_FlaggedWins(t *testing.T) {
	newest := validAddress()
	flagged := validAddress()
	flagged.IsDefault = true

	picked := PickDefault([]*Address{&newest, &flagged})
	require.NotNil(t, picked)
	assert.Equal(t, flagged.ID, picked.ID)
}

func TestPickDefault_FallsBackToNewest(t *testing.T) {
	newest := validAddress()
	older := validAddress()

	picked := PickDefault([]*Address{&newest, &older})
	require.NotNil(t, picked)
	assert.Equal(t, newest.ID, picked.ID)
}

func TestPickDefault_Empty(t *testing.T) {
	assert.Nil(t, PickDefault(nil))
}
