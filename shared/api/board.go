package api

import (
	"github.com/itchan-dev/boardsync/shared/domain"
)

// Request DTOs

type CreateBoardRequest struct {
	Title string `json:"title" validate:"required"`
}

// Response DTOs

// BoardMetadataResponse wraps board metadata
type BoardMetadataResponse struct {
	domain.BoardMetadata
}

// BoardResponse wraps a full board snapshot with lists and cards in display order
type BoardResponse struct {
	domain.Board
}

// BoardListResponse wraps a list of boards
type BoardListResponse struct {
	Boards []BoardMetadataResponse `json:"boards"`
}
