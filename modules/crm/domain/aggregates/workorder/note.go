package workorder

import (
	"strings"
	"time"
)

// Note is append-only. At least one note must exist before a work order can
// be marked done.
type Note struct {
	id          uint
	workOrderID uint
	userID      uint
	note        string
	createdAt   time.Time
}

func NewNote(workOrderID, userID uint, text string) Note {
	return Note{
		workOrderID: workOrderID,
		userID:      userID,
		note:        strings.TrimSpace(text),
	}
}

func HydrateNote(id, workOrderID, userID uint, text string, createdAt time.Time) Note {
	return Note{
		id:          id,
		workOrderID: workOrderID,
		userID:      userID,
		note:        text,
		createdAt:   createdAt,
	}
}

type CreateNoteDTO struct {
	Note string `json:"note" validate:"required"`
}

func (n Note) ID() uint             { return n.id }
func (n Note) WorkOrderID() uint    { return n.workOrderID }
func (n Note) UserID() uint         { return n.userID }
func (n Note) Text() string         { return n.note }
func (n Note) CreatedAt() time.Time { return n.createdAt }
