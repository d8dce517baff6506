package service

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/itchan-dev/boardsync/backend/internal/order"
	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
)

// memStore is a serializable in-memory Store. Each transaction works on a copy that replaces
// the committed state only if fn succeeds, so failed transactions leave no trace.
type memStore struct {
	mu     sync.Mutex
	boards map[domain.BoardId]domain.BoardMetadata
	lists  map[domain.ListId]domain.List
	cards  map[domain.CardId]domain.Card

	// number of upcoming commits to fail with a write conflict
	conflicts int
	txCount   int
	// locks taken by the most recent transaction, in call order
	locks []string
	// runs once before the next order rewrite, standing in for a writer that committed
	// after fn read its siblings
	interleave func(s *memStore)
}

func newMemStore() *memStore {
	return &memStore{
		boards: map[domain.BoardId]domain.BoardMetadata{},
		lists:  map[domain.ListId]domain.List{},
		cards:  map[domain.CardId]domain.Card{},
	}
}

func (s *memStore) Transactionally(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	tx := &memTx{store: s, boards: maps.Clone(s.boards), lists: maps.Clone(s.lists), cards: maps.Clone(s.cards)}
	err := fn(tx)
	s.locks = tx.locks
	if err != nil {
		return err
	}
	if s.conflicts > 0 {
		s.conflicts--
		return internal_errors.ErrWriteConflict
	}
	if !tx.keysUnique() {
		return internal_errors.ErrWriteConflict
	}
	s.boards, s.lists, s.cards = tx.boards, tx.lists, tx.cards
	return nil
}

// snapshot reads committed state outside of any transaction.
func (s *memStore) snapshot() *memTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memTx{boards: maps.Clone(s.boards), lists: maps.Clone(s.lists), cards: maps.Clone(s.cards)}
}

type memTx struct {
	store  *memStore
	boards map[domain.BoardId]domain.BoardMetadata
	lists  map[domain.ListId]domain.List
	cards  map[domain.CardId]domain.Card
	locks  []string
}

// interleaved applies a pending concurrent commit to both committed state and this
// transaction's view of the rows it did not read yet.
func (t *memTx) interleaved() {
	if t.store == nil || t.store.interleave == nil {
		return
	}
	hook := t.store.interleave
	t.store.interleave = nil
	hook(t.store)
	for id := range t.cards {
		if _, ok := t.store.cards[id]; !ok {
			delete(t.cards, id)
		}
	}
	for id := range t.lists {
		if _, ok := t.store.lists[id]; !ok {
			delete(t.lists, id)
		}
	}
}

var _ Tx = (*memTx)(nil)

func (t *memTx) keysUnique() bool {
	seen := map[[2]any]bool{}
	for _, l := range t.lists {
		k := [2]any{l.BoardId, l.Order}
		if seen[k] {
			return false
		}
		seen[k] = true
	}
	for _, c := range t.cards {
		k := [2]any{c.ListId, c.Order}
		if seen[k] {
			return false
		}
		seen[k] = true
	}
	return true
}

func (t *memTx) BoardOwner(ctx context.Context, id domain.BoardId) (domain.UserId, error) {
	b, ok := t.boards[id]
	if !ok {
		return 0, internal_errors.ErrNotFound
	}
	return b.Owner, nil
}

func (t *memTx) CreateBoard(ctx context.Context, board domain.BoardMetadata) error {
	t.boards[board.Id] = board
	return nil
}

func (t *memTx) LockBoard(ctx context.Context, id domain.BoardId) error {
	t.locks = append(t.locks, "board:"+id.String())
	if _, ok := t.boards[id]; !ok {
		return internal_errors.ErrNotFound
	}
	return nil
}

func (t *memTx) GetBoard(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	meta, ok := t.boards[id]
	if !ok {
		return nil, internal_errors.ErrNotFound
	}
	board := &domain.Board{BoardMetadata: meta}
	siblings, _ := t.ListSiblings(ctx, id)
	for _, s := range siblings {
		l := t.lists[s.Id]
		cards, _ := t.CardSiblings(ctx, l.Id)
		for _, c := range cards {
			l.Cards = append(l.Cards, t.cards[c.Id])
		}
		board.Lists = append(board.Lists, l)
	}
	return board, nil
}

func (t *memTx) ListBoards(ctx context.Context, owner domain.UserId) ([]domain.BoardMetadata, error) {
	var out []domain.BoardMetadata
	for _, b := range t.boards {
		if b.Owner == owner {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(x, y domain.BoardMetadata) int { return x.CreatedAt.Compare(y.CreatedAt) })
	return out, nil
}

func (t *memTx) DeleteBoard(ctx context.Context, id domain.BoardId) error {
	if _, ok := t.boards[id]; !ok {
		return internal_errors.ErrNotFound
	}
	for _, l := range t.lists {
		if l.BoardId == id {
			_ = t.DeleteList(ctx, l.Id)
		}
	}
	delete(t.boards, id)
	return nil
}

func (t *memTx) GetList(ctx context.Context, id domain.ListId) (*domain.List, error) {
	l, ok := t.lists[id]
	if !ok {
		return nil, internal_errors.ErrNotFound
	}
	return &l, nil
}

func (t *memTx) LockLists(ctx context.Context, ids ...domain.ListId) error {
	for _, id := range ids {
		t.locks = append(t.locks, "list:"+id.String())
		if _, ok := t.lists[id]; !ok {
			return internal_errors.ErrNotFound
		}
	}
	return nil
}

func (t *memTx) ListSiblings(ctx context.Context, boardId domain.BoardId) ([]domain.Sibling, error) {
	var out []domain.Sibling
	for _, l := range t.lists {
		if l.BoardId == boardId {
			out = append(out, domain.Sibling{Id: l.Id, Order: l.Order, Revision: l.Revision})
		}
	}
	order.Sort(out)
	return out, nil
}

func (t *memTx) InsertList(ctx context.Context, list domain.List) error {
	if _, ok := t.boards[list.BoardId]; !ok {
		return internal_errors.ErrNotFound
	}
	t.lists[list.Id] = list
	return nil
}

func (t *memTx) RenameList(ctx context.Context, id domain.ListId, title domain.ListTitle) (domain.Revision, error) {
	l, ok := t.lists[id]
	if !ok {
		return 0, internal_errors.ErrNotFound
	}
	l.Title = title
	l.Revision++
	t.lists[id] = l
	return l.Revision, nil
}

func (t *memTx) SetListOrders(ctx context.Context, keys []domain.Sibling) ([]domain.Sibling, error) {
	t.interleaved()
	out := make([]domain.Sibling, len(keys))
	for i, k := range keys {
		l, ok := t.lists[k.Id]
		if !ok {
			return nil, internal_errors.ErrWriteConflict
		}
		l.Order = k.Order
		l.Revision++
		t.lists[k.Id] = l
		out[i] = domain.Sibling{Id: l.Id, Order: l.Order, Revision: l.Revision}
	}
	return out, nil
}

func (t *memTx) DeleteList(ctx context.Context, id domain.ListId) error {
	if _, ok := t.lists[id]; !ok {
		return internal_errors.ErrNotFound
	}
	for _, c := range t.cards {
		if c.ListId == id {
			delete(t.cards, c.Id)
		}
	}
	delete(t.lists, id)
	return nil
}

func (t *memTx) GetCard(ctx context.Context, id domain.CardId) (*domain.Card, error) {
	c, ok := t.cards[id]
	if !ok {
		return nil, internal_errors.ErrNotFound
	}
	return &c, nil
}

func (t *memTx) CardSiblings(ctx context.Context, listId domain.ListId) ([]domain.Sibling, error) {
	var out []domain.Sibling
	for _, c := range t.cards {
		if c.ListId == listId {
			out = append(out, domain.Sibling{Id: c.Id, Order: c.Order, Revision: c.Revision})
		}
	}
	order.Sort(out)
	return out, nil
}

func (t *memTx) InsertCard(ctx context.Context, card domain.Card) error {
	if _, ok := t.lists[card.ListId]; !ok {
		return internal_errors.ErrNotFound
	}
	t.cards[card.Id] = card
	return nil
}

func (t *memTx) UpdateCardFields(ctx context.Context, id domain.CardId, fields domain.CardFields) (domain.Revision, error) {
	c, ok := t.cards[id]
	if !ok {
		return 0, internal_errors.ErrNotFound
	}
	c.CardFields = fields
	c.Revision++
	t.cards[id] = c
	return c.Revision, nil
}

func (t *memTx) PlaceCard(ctx context.Context, id domain.CardId, listId domain.ListId, key domain.OrderKey) (domain.Revision, error) {
	c, ok := t.cards[id]
	if !ok {
		return 0, internal_errors.ErrNotFound
	}
	if _, ok := t.lists[listId]; !ok {
		return 0, internal_errors.ErrNotFound
	}
	c.ListId, c.Order = listId, key
	c.Revision++
	t.cards[id] = c
	return c.Revision, nil
}

func (t *memTx) SetCardOrders(ctx context.Context, keys []domain.Sibling) ([]domain.Sibling, error) {
	t.interleaved()
	out := make([]domain.Sibling, len(keys))
	for i, k := range keys {
		c, ok := t.cards[k.Id]
		if !ok {
			return nil, internal_errors.ErrWriteConflict
		}
		c.Order = k.Order
		c.Revision++
		t.cards[k.Id] = c
		out[i] = domain.Sibling{Id: c.Id, Order: c.Order, Revision: c.Revision}
	}
	return out, nil
}

func (t *memTx) DeleteCard(ctx context.Context, id domain.CardId) error {
	if _, ok := t.cards[id]; !ok {
		return internal_errors.ErrNotFound
	}
	delete(t.cards, id)
	return nil
}
