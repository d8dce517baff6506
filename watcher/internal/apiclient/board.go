package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/itchan-dev/boardsync/shared/api"
	"github.com/itchan-dev/boardsync/shared/domain"
)

// === Board Methods ===

func (c *APIClient) GetBoards(ctx context.Context) ([]domain.BoardMetadata, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/boards", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var response api.BoardListResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("cannot decode boards response: %w", err)
	}

	boards := make([]domain.BoardMetadata, len(response.Boards))
	for i, b := range response.Boards {
		boards[i] = b.BoardMetadata
	}
	return boards, nil
}

func (c *APIClient) GetBoard(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/boards/"+id.String(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var response api.BoardResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("cannot decode board response: %w", err)
	}
	return &response.Board, nil
}

func (c *APIClient) CreateBoard(ctx context.Context, title string) (*domain.BoardMetadata, error) {
	jsonBody, err := json.Marshal(api.CreateBoardRequest{Title: title})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board data: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/boards", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}
	var response api.BoardMetadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("cannot decode board response: %w", err)
	}
	return &response.BoardMetadata, nil
}
