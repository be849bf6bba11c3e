package customer

import (
	"strings"
	"time"
	"unicode"
)

type Customer struct {
	id        uint
	name      string
	phone     string
	email     string
	address   string
	createdAt time.Time
	updatedAt time.Time
}

func New(name, phone, email, address string) Customer {
	return Customer{
		name:    strings.TrimSpace(name),
		phone:   NormalizePhone(phone),
		email:   strings.TrimSpace(email),
		address: strings.TrimSpace(address),
	}
}

func Hydrate(
	id uint,
	name string,
	phone string,
	email string,
	address string,
	createdAt time.Time,
	updatedAt time.Time,
) Customer {
	return Customer{
		id:        id,
		name:      strings.TrimSpace(name),
		phone:     NormalizePhone(phone),
		email:     email,
		address:   address,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c Customer) ID() uint             { return c.id }
func (c Customer) Name() string         { return c.name }
func (c Customer) Phone() string        { return c.phone }
func (c Customer) Email() string        { return c.email }
func (c Customer) Address() string      { return c.address }
func (c Customer) CreatedAt() time.Time { return c.createdAt }
func (c Customer) UpdatedAt() time.Time { return c.updatedAt }
func (c Customer) IsZero() bool         { return c.id == 0 && c.phone == "" }

// NormalizePhone strips every non-digit rune. Applied on every write so the
// unique index on customers.phone always compares canonical values.
func NormalizePhone(v string) string {
	var b strings.Builder
	for _, r := range v {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
