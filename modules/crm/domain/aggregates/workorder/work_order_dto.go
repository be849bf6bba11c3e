package workorder

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rsmhq/rsm/pkg/constants"
	"github.com/rsmhq/rsm/pkg/serrors"
)

type CreateDTO struct {
	CustomerID  uint   `json:"customer_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueAt       string `json:"due_at" validate:"omitempty"`
}

func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Priority = strings.TrimSpace(d.Priority)
	d.DueAt = strings.TrimSpace(d.DueAt)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidationErrors{}
	if err := constants.Validate.Struct(d); err != nil {
		errs = serrors.ProcessValidatorErrors(err.(validator.ValidationErrors))
	}
	if d.DueAt != "" {
		if _, err := ParseDate(d.DueAt); err != nil {
			errs["DueAt"] = "The due at field must be a valid date."
		}
	}
	return errs, len(errs) == 0
}

func (d *CreateDTO) ToEntity(createdBy uint) WorkOrder {
	var dueAt *time.Time
	if d.DueAt != "" {
		if t, err := ParseDate(d.DueAt); err == nil {
			dueAt = &t
		}
	}
	return New(d.CustomerID, d.Title, d.Description, Priority(d.Priority), dueAt, createdBy)
}

type UpdateDTO struct {
	Title       string `json:"title" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueAt       string `json:"due_at" validate:"omitempty"`
}

func (d *UpdateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Priority = strings.TrimSpace(d.Priority)
	d.DueAt = strings.TrimSpace(d.DueAt)
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.ValidationErrors{}
	if err := constants.Validate.Struct(d); err != nil {
		errs = serrors.ProcessValidatorErrors(err.(validator.ValidationErrors))
	}
	if d.DueAt != "" {
		if _, err := ParseDate(d.DueAt); err != nil {
			errs["DueAt"] = "The due at field must be a valid date."
		}
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Apply(existing WorkOrder) WorkOrder {
	title := existing.Title()
	if d.Title != "" {
		title = d.Title
	}
	description := existing.Description()
	if d.Description != "" {
		description = d.Description
	}
	priority := existing.Priority()
	if d.Priority != "" {
		priority = Priority(d.Priority)
	}
	dueAt := existing.DueAt()
	if d.DueAt != "" {
		if t, err := ParseDate(d.DueAt); err == nil {
			dueAt = &t
		}
	}
	return Hydrate(
		existing.ID(),
		existing.CustomerID(),
		title,
		description,
		existing.Status(),
		priority,
		dueAt,
		existing.CreatedBy(),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate accepts the date shapes commonly seen in import files and API
// payloads. Anything else is a validation failure, never a crash.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
