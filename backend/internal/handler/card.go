package handler

import (
	"net/http"

	"github.com/itchan-dev/boardsync/shared/api"
	"github.com/itchan-dev/boardsync/shared/domain"
	mw "github.com/itchan-dev/boardsync/shared/middleware"
	"github.com/itchan-dev/boardsync/shared/utils"
)

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	listId, err := parseId(r, "list")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.board.CreateCard(r.Context(), mw.GetUserFromContext(r), domain.CardCreationData{
		ListId:   listId,
		Fields:   body.Fields(),
		Position: body.Position.ToDomain(),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.CardResponse{Card: *card})
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.board.UpdateCard(r.Context(), mw.GetUserFromContext(r), id, body.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.CardResponse{Card: *card})
}

// MoveCard places a card in a list (its own or another one on the same board).
func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.MoveCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.board.MoveCard(r.Context(), mw.GetUserFromContext(r), id, body.ListId, body.Position.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.CardResponse{Card: *card})
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.DeleteCard(r.Context(), mw.GetUserFromContext(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
