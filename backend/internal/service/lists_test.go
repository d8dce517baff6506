package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listTitles(store *memStore, boardId domain.BoardId) []string {
	tx := store.snapshot()
	siblings, _ := tx.ListSiblings(context.Background(), boardId)
	titles := make([]string, len(siblings))
	for i, s := range siblings {
		titles[i] = tx.lists[s.Id].Title
	}
	return titles
}

func TestCreateList(t *testing.T) {
	ctx := context.Background()

	t.Run("appends and positions", func(t *testing.T) {
		b, store, _ := setupBoards()
		board, lists := seedBoard(t, b, "Todo", "Done")
		assert.Equal(t, 1024.0, lists[0].Order)
		assert.Equal(t, 2048.0, lists[1].Order)

		doing, err := b.CreateList(ctx, owner, domain.ListCreationData{
			BoardId:  board.Id,
			Title:    "  Doing ",
			Position: domain.Position{After: &lists[0].Id, Before: &lists[1].Id},
		})
		require.NoError(t, err)
		assert.Equal(t, "Doing", doing.Title)
		assert.Equal(t, 1536.0, doing.Order)

		first, err := b.CreateList(ctx, owner, domain.ListCreationData{
			BoardId:  board.Id,
			Title:    "Backlog",
			Position: domain.Position{Before: &lists[0].Id},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, first.Order)
		assert.Equal(t, []string{"Backlog", "Todo", "Doing", "Done"}, listTitles(store, board.Id))
	})

	t.Run("empty title", func(t *testing.T) {
		b, _, pub := setupBoards()
		board, _ := seedBoard(t, b)
		pub.reset()

		_, err := b.CreateList(ctx, owner, domain.ListCreationData{BoardId: board.Id, Title: "   "})
		assert.ErrorIs(t, err, internal_errors.ErrInvalidInput)
		assert.Empty(t, pub.published())
	})

	t.Run("unknown anchor", func(t *testing.T) {
		b, _, _ := setupBoards()
		board, _ := seedBoard(t, b, "Todo")
		ghost := uuid.New()

		_, err := b.CreateList(ctx, owner, domain.ListCreationData{BoardId: board.Id, Title: "x", Position: domain.Position{After: &ghost}})
		assert.ErrorIs(t, err, internal_errors.ErrInvalidPosition)
		assert.ErrorIs(t, err, internal_errors.ErrInvalidInput)
	})

	t.Run("foreign or missing board", func(t *testing.T) {
		b, store, _ := setupBoards()
		board, _ := seedBoard(t, b)

		_, err := b.CreateList(ctx, stranger, domain.ListCreationData{BoardId: board.Id, Title: "x"})
		assert.ErrorIs(t, err, internal_errors.ErrNotFound)
		assert.Equal(t, "board "+board.Id.String()+": not found", err.Error())

		missing := uuid.New()
		_, err = b.CreateList(ctx, owner, domain.ListCreationData{BoardId: missing, Title: "x"})
		assert.Equal(t, "board "+missing.String()+": not found", err.Error())

		_, err = b.CreateList(ctx, nil, domain.ListCreationData{BoardId: board.Id, Title: "x"})
		assert.ErrorIs(t, err, internal_errors.ErrNotFound)
		assert.Empty(t, store.snapshot().lists)
	})
}

func TestUpdateList(t *testing.T) {
	ctx := context.Background()
	b, _, pub := setupBoards()
	_, lists := seedBoard(t, b, "Todo")
	pub.reset()

	l, err := b.UpdateList(ctx, owner, lists[0].Id, "Next up")
	require.NoError(t, err)
	assert.Equal(t, "Next up", l.Title)
	assert.Equal(t, lists[0].Order, l.Order, "rename keeps position")
	assert.Equal(t, domain.Revision(2), l.Revision)

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, domain.OpUpdate, events[0].Operation)
	assert.Equal(t, "Next up", events[0].Title)

	_, err = b.UpdateList(ctx, stranger, lists[0].Id, "mine now")
	assert.ErrorIs(t, err, internal_errors.ErrNotFound)
	_, err = b.UpdateList(ctx, owner, lists[0].Id, "")
	assert.ErrorIs(t, err, internal_errors.ErrInvalidInput)
}

func TestReorderList(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to front", func(t *testing.T) {
		b, store, pub := setupBoards()
		board, lists := seedBoard(t, b, "A", "B", "C")
		pub.reset()

		moved, err := b.ReorderList(ctx, owner, lists[2].Id, domain.Position{Before: &lists[0].Id})
		require.NoError(t, err)
		assert.Less(t, moved.Order, lists[0].Order)
		assert.Equal(t, domain.Revision(2), moved.Revision)
		assert.Equal(t, []string{"C", "A", "B"}, listTitles(store, board.Id))

		events := pub.published()
		require.Len(t, events, 1)
		assert.Equal(t, domain.OpMove, events[0].Operation)
		assert.Equal(t, moved.Order, events[0].OrderKey)
		assert.Empty(t, events[0].Reindexed)
	})

	t.Run("self anchor", func(t *testing.T) {
		b, _, _ := setupBoards()
		_, lists := seedBoard(t, b, "A", "B")

		_, err := b.ReorderList(ctx, owner, lists[0].Id, domain.Position{After: &lists[0].Id})
		assert.ErrorIs(t, err, internal_errors.ErrInvalidPosition)
	})

	t.Run("non adjacent anchors", func(t *testing.T) {
		b, _, _ := setupBoards()
		_, lists := seedBoard(t, b, "A", "B", "C", "D")

		_, err := b.ReorderList(ctx, owner, lists[3].Id, domain.Position{After: &lists[0].Id, Before: &lists[2].Id})
		assert.ErrorIs(t, err, internal_errors.ErrInvalidPosition)
	})

	t.Run("exhausted gap reindexes the board", func(t *testing.T) {
		b, store, pub := setupBoards()
		board, lists := seedBoard(t, b, "A", "B", "C")
		// squeeze A and B together so nothing fits between them
		store.mu.Lock()
		a, bl := store.lists[lists[0].Id], store.lists[lists[1].Id]
		a.Order, bl.Order = 1, 1.0000000000000002
		store.lists[a.Id], store.lists[bl.Id] = a, bl
		store.mu.Unlock()
		pub.reset()

		moved, err := b.ReorderList(ctx, owner, lists[2].Id, domain.Position{After: &lists[0].Id, Before: &lists[1].Id})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "C", "B"}, listTitles(store, board.Id))

		events := pub.published()
		require.Len(t, events, 1)
		require.Len(t, events[0].Reindexed, 2)
		assert.Equal(t, lists[0].Id, events[0].Reindexed[0].EntityId)
		assert.Equal(t, 1024.0, events[0].Reindexed[0].OrderKey)
		assert.Equal(t, 2048.0, events[0].Reindexed[1].OrderKey)
		assert.Equal(t, domain.Revision(2), events[0].Reindexed[0].Revision)
		assert.Equal(t, 1536.0, moved.Order)
	})

	t.Run("concurrent reorders keep keys unique", func(t *testing.T) {
		b, store, _ := setupBoards()
		board, lists := seedBoard(t, b, "A", "B", "C", "D", "E")

		var wg sync.WaitGroup
		errs := make([]error, len(lists))
		for i := range lists {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = b.ReorderList(ctx, owner, lists[i].Id, domain.Position{})
			}()
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, internal_errors.ErrConflictRetryExhausted)
			}
		}
		tx := store.snapshot()
		siblings, _ := tx.ListSiblings(ctx, board.Id)
		require.Len(t, siblings, len(lists))
		for i := 1; i < len(siblings); i++ {
			assert.Less(t, siblings[i-1].Order, siblings[i].Order)
		}
	})
}

func TestDeleteList(t *testing.T) {
	ctx := context.Background()
	b, store, pub := setupBoards()
	board, lists := seedBoard(t, b, "Todo", "Done")
	cards := seedCards(t, b, lists[0].Id, "one", "two", "three")
	kept := seedCards(t, b, lists[1].Id, "shipped")[0]
	pub.reset()

	_, err := b.CreateCard(ctx, stranger, domain.CardCreationData{ListId: lists[0].Id, Fields: domain.CardFields{Title: "x"}})
	assert.ErrorIs(t, err, internal_errors.ErrNotFound)
	assert.ErrorIs(t, b.DeleteList(ctx, stranger, lists[0].Id), internal_errors.ErrNotFound)

	require.NoError(t, b.DeleteList(ctx, owner, lists[0].Id))
	assert.Equal(t, []string{"board:" + board.Id.String(), "list:" + lists[0].Id.String()}, store.locks)

	tx := store.snapshot()
	assert.NotContains(t, tx.lists, lists[0].Id)
	for _, c := range cards {
		assert.NotContains(t, tx.cards, c.Id)
	}
	assert.Contains(t, tx.cards, kept.Id)

	events := pub.published()
	require.Len(t, events, 4, "one event per removed entity")
	deleted := map[uuid.UUID]domain.EntityType{}
	for _, e := range events {
		assert.Equal(t, domain.OpDelete, e.Operation)
		deleted[e.EntityId] = e.EntityType
	}
	assert.Equal(t, domain.EntityList, deleted[lists[0].Id])
	for _, c := range cards {
		assert.Equal(t, domain.EntityCard, deleted[c.Id])
	}

	// a card created after the delete cannot land in the removed list
	_, err = b.CreateCard(ctx, owner, domain.CardCreationData{ListId: lists[0].Id, Fields: domain.CardFields{Title: "late"}})
	assert.ErrorIs(t, err, internal_errors.ErrNotFound)
	assert.ErrorIs(t, b.DeleteList(ctx, owner, lists[0].Id), internal_errors.ErrNotFound)
}

func TestDeleteListRacingCreateCard(t *testing.T) {
	ctx := context.Background()
	for range 20 {
		b, store, _ := setupBoards()
		_, lists := seedBoard(t, b, "Todo")
		seedCards(t, b, lists[0].Id, "one", "two", "three")

		var wg sync.WaitGroup
		wg.Add(2)
		var createErr error
		go func() {
			defer wg.Done()
			_, createErr = b.CreateCard(ctx, owner, domain.CardCreationData{ListId: lists[0].Id, Fields: domain.CardFields{Title: "racer"}})
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, b.DeleteList(ctx, owner, lists[0].Id))
		}()
		wg.Wait()

		if createErr != nil {
			assert.ErrorIs(t, createErr, internal_errors.ErrNotFound)
		}
		assert.Empty(t, store.snapshot().cards, "no orphaned card")
	}
}
