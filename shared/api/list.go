package api

import "github.com/itchan-dev/boardsync/shared/domain"

// Request DTOs

type CreateListRequest struct {
	Title    string   `json:"title" validate:"required"`
	Position Position `json:"position"`
}

type UpdateListRequest struct {
	Title string `json:"title" validate:"required"`
}

type ReorderListRequest struct {
	Position Position `json:"position"`
}

// Response DTOs

type ListResponse struct {
	domain.List
}
