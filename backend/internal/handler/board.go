package handler

import (
	"net/http"

	"github.com/itchan-dev/boardsync/shared/api"
	mw "github.com/itchan-dev/boardsync/shared/middleware"
	"github.com/itchan-dev/boardsync/shared/utils"
)

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var body api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.board.CreateBoard(r.Context(), mw.GetUserFromContext(r), body.Title)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.BoardMetadataResponse{BoardMetadata: *board})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.board.GetBoard(r.Context(), mw.GetUserFromContext(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.BoardResponse{Board: *board})
}

func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.board.ListBoards(r.Context(), mw.GetUserFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.BoardListResponse{Boards: make([]api.BoardMetadataResponse, len(boards))}
	for i, b := range boards {
		response.Boards[i] = api.BoardMetadataResponse{BoardMetadata: b}
	}
	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.DeleteBoard(r.Context(), mw.GetUserFromContext(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
