package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

type Address struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Street       string    `json:"street"`
	Number       string    `json:"number"`
	Complement   string    `json:"complement,omitempty"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var postalCodeRe = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// Valid checks the fixed field set: everything required except complement,
// state as a two-letter code, CEP-shaped postal code.
func (a *Address) Valid() bool {
	if a.Street == "" || a.Number == "" || a.Neighborhood == "" || a.City == "" {
		return false
	}
	if len(a.State) != 2 {
		return false
	}
	return postalCodeRe.MatchString(a.PostalCode)
}

// PickDefault chooses the address pre-selected at checkout: the one flagged
// default, else the newest. Addresses are expected newest-first.
func PickDefault(addrs []*Address) *Address {
	if len(addrs) == 0 {
		return nil
	}
	for _, a := range addrs {
		if a.IsDefault {
			return a
		}
	}
	return addrs[0]
}
