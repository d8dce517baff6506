package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/boardsync/shared/domain"
	mw "github.com/itchan-dev/boardsync/shared/middleware"
)

type MockBoardService struct {
	MockCreateBoard func(user *domain.User, title domain.BoardTitle) (*domain.BoardMetadata, error)
	MockGetBoard    func(user *domain.User, id domain.BoardId) (*domain.Board, error)
	MockListBoards  func(user *domain.User) ([]domain.BoardMetadata, error)
	MockDeleteBoard func(user *domain.User, id domain.BoardId) error

	MockCreateList  func(user *domain.User, data domain.ListCreationData) (*domain.List, error)
	MockUpdateList  func(user *domain.User, id domain.ListId, title domain.ListTitle) (*domain.List, error)
	MockReorderList func(user *domain.User, id domain.ListId, pos domain.Position) (*domain.List, error)
	MockDeleteList  func(user *domain.User, id domain.ListId) error

	MockCreateCard func(user *domain.User, data domain.CardCreationData) (*domain.Card, error)
	MockUpdateCard func(user *domain.User, id domain.CardId, data domain.CardUpdateData) (*domain.Card, error)
	MockMoveCard   func(user *domain.User, id domain.CardId, targetList domain.ListId, pos domain.Position) (*domain.Card, error)
	MockDeleteCard func(user *domain.User, id domain.CardId) error
}

func (m *MockBoardService) CreateBoard(ctx context.Context, user *domain.User, title domain.BoardTitle) (*domain.BoardMetadata, error) {
	if m.MockCreateBoard != nil {
		return m.MockCreateBoard(user, title)
	}
	return &domain.BoardMetadata{}, nil
}

func (m *MockBoardService) GetBoard(ctx context.Context, user *domain.User, id domain.BoardId) (*domain.Board, error) {
	if m.MockGetBoard != nil {
		return m.MockGetBoard(user, id)
	}
	return &domain.Board{}, nil
}

func (m *MockBoardService) ListBoards(ctx context.Context, user *domain.User) ([]domain.BoardMetadata, error) {
	if m.MockListBoards != nil {
		return m.MockListBoards(user)
	}
	return nil, nil
}

func (m *MockBoardService) DeleteBoard(ctx context.Context, user *domain.User, id domain.BoardId) error {
	if m.MockDeleteBoard != nil {
		return m.MockDeleteBoard(user, id)
	}
	return nil
}

func (m *MockBoardService) CreateList(ctx context.Context, user *domain.User, data domain.ListCreationData) (*domain.List, error) {
	if m.MockCreateList != nil {
		return m.MockCreateList(user, data)
	}
	return &domain.List{}, nil
}

func (m *MockBoardService) UpdateList(ctx context.Context, user *domain.User, id domain.ListId, title domain.ListTitle) (*domain.List, error) {
	if m.MockUpdateList != nil {
		return m.MockUpdateList(user, id, title)
	}
	return &domain.List{}, nil
}

func (m *MockBoardService) ReorderList(ctx context.Context, user *domain.User, id domain.ListId, pos domain.Position) (*domain.List, error) {
	if m.MockReorderList != nil {
		return m.MockReorderList(user, id, pos)
	}
	return &domain.List{}, nil
}

func (m *MockBoardService) DeleteList(ctx context.Context, user *domain.User, id domain.ListId) error {
	if m.MockDeleteList != nil {
		return m.MockDeleteList(user, id)
	}
	return nil
}

func (m *MockBoardService) CreateCard(ctx context.Context, user *domain.User, data domain.CardCreationData) (*domain.Card, error) {
	if m.MockCreateCard != nil {
		return m.MockCreateCard(user, data)
	}
	return &domain.Card{}, nil
}

func (m *MockBoardService) UpdateCard(ctx context.Context, user *domain.User, id domain.CardId, data domain.CardUpdateData) (*domain.Card, error) {
	if m.MockUpdateCard != nil {
		return m.MockUpdateCard(user, id, data)
	}
	return &domain.Card{}, nil
}

func (m *MockBoardService) MoveCard(ctx context.Context, user *domain.User, id domain.CardId, targetList domain.ListId, pos domain.Position) (*domain.Card, error) {
	if m.MockMoveCard != nil {
		return m.MockMoveCard(user, id, targetList, pos)
	}
	return &domain.Card{}, nil
}

func (m *MockBoardService) DeleteCard(ctx context.Context, user *domain.User, id domain.CardId) error {
	if m.MockDeleteCard != nil {
		return m.MockDeleteCard(user, id)
	}
	return nil
}

var testUser = &domain.User{Id: 123}

// setupTestHandler mounts the routes behind a fake auth layer that injects testUser.
func setupTestHandler(service *MockBoardService) (*Handler, *chi.Mux) {
	h := &Handler{board: service}
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.ContextWithUser(r.Context(), testUser)))
		})
	})

	router.Post("/v1/boards", h.CreateBoard)
	router.Get("/v1/boards", h.GetBoards)
	router.Get("/v1/boards/{board}", h.GetBoard)
	router.Delete("/v1/boards/{board}", h.DeleteBoard)
	router.Get("/v1/boards/{board}/events", h.BoardEvents)

	router.Post("/v1/boards/{board}/lists", h.CreateList)
	router.Patch("/v1/lists/{list}", h.UpdateList)
	router.Post("/v1/lists/{list}/reorder", h.ReorderList)
	router.Delete("/v1/lists/{list}", h.DeleteList)

	router.Post("/v1/lists/{list}/cards", h.CreateCard)
	router.Patch("/v1/cards/{card}", h.UpdateCard)
	router.Post("/v1/cards/{card}/move", h.MoveCard)
	router.Delete("/v1/cards/{card}", h.DeleteCard)
	return h, router
}

func serve(router http.Handler, method, route string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, route, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
