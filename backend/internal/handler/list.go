package handler

import (
	"net/http"

	"github.com/itchan-dev/boardsync/shared/api"
	"github.com/itchan-dev/boardsync/shared/domain"
	mw "github.com/itchan-dev/boardsync/shared/middleware"
	"github.com/itchan-dev/boardsync/shared/utils"
)

func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	boardId, err := parseId(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateListRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	list, err := h.board.CreateList(r.Context(), mw.GetUserFromContext(r), domain.ListCreationData{
		BoardId:  boardId,
		Title:    body.Title,
		Position: body.Position.ToDomain(),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.ListResponse{List: *list})
}

func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "list")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateListRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	list, err := h.board.UpdateList(r.Context(), mw.GetUserFromContext(r), id, body.Title)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ListResponse{List: *list})
}

func (h *Handler) ReorderList(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "list")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.ReorderListRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	list, err := h.board.ReorderList(r.Context(), mw.GetUserFromContext(r), id, body.Position.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.ListResponse{List: *list})
}

func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "list")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.DeleteList(r.Context(), mw.GetUserFromContext(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
