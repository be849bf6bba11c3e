package customer

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rsmhq/rsm/pkg/constants"
	"github.com/rsmhq/rsm/pkg/serrors"
)

type CreateDTO struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Address string `json:"address" validate:"omitempty"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = NormalizePhone(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}

func (d *CreateDTO) ToEntity() Customer {
	return New(d.Name, d.Phone, d.Email, d.Address)
}

type UpdateDTO struct {
	Name    string `json:"name" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"omitempty"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Address string `json:"address" validate:"omitempty"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = NormalizePhone(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}

// Apply overlays the non-empty DTO fields onto an existing customer.
func (d *UpdateDTO) Apply(existing Customer) Customer {
	name := existing.Name()
	if d.Name != "" {
		name = d.Name
	}
	phone := existing.Phone()
	if d.Phone != "" {
		phone = d.Phone
	}
	email := existing.Email()
	if d.Email != "" {
		email = d.Email
	}
	address := existing.Address()
	if d.Address != "" {
		address = d.Address
	}
	return Hydrate(existing.ID(), name, phone, email, address, existing.CreatedAt(), existing.UpdatedAt())
}
