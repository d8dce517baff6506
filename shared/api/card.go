package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/shared/domain"
)

// Request DTOs

type CreateCardRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description,omitempty"`
	Priority    domain.Priority `json:"priority,omitempty" validate:"min=0,max=3"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Links       []string        `json:"links,omitempty" validate:"max=20,dive,url"`
	Position    Position        `json:"position"`
}

func (r CreateCardRequest) Fields() domain.CardFields {
	return domain.CardFields{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		Links:       domain.Links(r.Links),
	}
}

// UpdateCardRequest changes only the fields that are present.
type UpdateCardRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Priority    *domain.Priority `json:"priority,omitempty" validate:"omitempty,min=0,max=3"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	ClearDue    bool             `json:"clear_due,omitempty"`
	Links       *[]string        `json:"links,omitempty" validate:"omitempty,max=20,dive,url"`
}

func (r UpdateCardRequest) ToDomain() domain.CardUpdateData {
	data := domain.CardUpdateData{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		ClearDue:    r.ClearDue,
	}
	if r.Links != nil {
		links := domain.Links(*r.Links)
		data.Links = &links
	}
	return data
}

type MoveCardRequest struct {
	ListId   uuid.UUID `json:"list_id" validate:"required"`
	Position Position  `json:"position"`
}

// Response DTOs

type CardResponse struct {
	domain.Card
}
