package customers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is a person receiving services at the clinic. CPF is the Brazilian
// taxpayer number and doubles as the customer's natural key at the desk.
type Customer struct {
	ID       uuid.UUID `json:"id"`
	CPF      string    `json:"cpf"`
	Name     string    `json:"customer_name"`
	Surname  string    `json:"surname"`
	Nickname string    `json:"nickname"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`

	// Emergency contact.
	EmergencyName         string `json:"emergency_name"`
	EmergencyPhone        string `json:"emergency_phone"`
	EmergencyRelationship string `json:"emergency_relationship"`

	BirthDate *time.Time `json:"birth_date,omitempty"`
	PhotoURL  string     `json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	if c.Surname == "" {
		return c.Name
	}
	return c.Name + " " + c.Surname
}

// NormalizeCPF strips the usual punctuation (123.456.789-09 -> 12345678909).
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
