// Package reconcile keeps a subscriber's local copy of a board in step with the board's event
// stream. Events may arrive duplicated or out of order across entities; the view converges to
// the same state regardless, because every event carries the full ordering state of one entity
// at a known revision.
package reconcile

import (
	"cmp"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/shared/domain"
)

// Item is one list or card as the view knows it.
type Item struct {
	Id       uuid.UUID
	ParentId uuid.UUID
	Order    domain.OrderKey
	Revision domain.Revision
	Title    string
}

type keyUpdate struct {
	order    domain.OrderKey
	revision domain.Revision
}

type View struct {
	mu      sync.RWMutex
	boardId domain.BoardId
	deleted bool

	lists map[uuid.UUID]*Item
	cards map[uuid.UUID]*Item

	// revision at which an entity was deleted
	tombstones map[uuid.UUID]domain.Revision
	// reindexed keys of entities whose create event hasn't arrived yet
	pending map[uuid.UUID]keyUpdate
}

func NewView(boardId domain.BoardId) *View {
	v := &View{boardId: boardId}
	v.reset()
	return v
}

func (v *View) reset() {
	v.deleted = false
	v.lists = map[uuid.UUID]*Item{}
	v.cards = map[uuid.UUID]*Item{}
	v.tombstones = map[uuid.UUID]domain.Revision{}
	v.pending = map[uuid.UUID]keyUpdate{}
}

// Load replaces the view with a snapshot. Events older than the snapshot are dropped by
// revision when they arrive afterwards.
func (v *View) Load(b *domain.Board) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.reset()
	v.boardId = b.Id
	for _, l := range b.Lists {
		v.lists[l.Id] = &Item{Id: l.Id, ParentId: l.BoardId, Order: l.Order, Revision: l.Revision, Title: l.Title}
		for _, c := range l.Cards {
			v.cards[c.Id] = &Item{Id: c.Id, ParentId: c.ListId, Order: c.Order, Revision: c.Revision, Title: c.Title}
		}
	}
}

// Apply folds one event into the view and reports whether anything changed.
// Applying the same event again is a no-op.
func (v *View) Apply(e domain.BoardEvent) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if e.BoardId != v.boardId || v.deleted {
		return false
	}

	var items map[uuid.UUID]*Item
	switch e.EntityType {
	case domain.EntityBoard:
		if e.Operation == domain.OpDelete {
			v.reset()
			v.deleted = true
			return true
		}
		return false
	case domain.EntityList:
		items = v.lists
	case domain.EntityCard:
		items = v.cards
	default:
		return false
	}

	changed := v.applyReindexed(items, e.Reindexed)

	if rev, ok := v.tombstones[e.EntityId]; ok && rev >= e.Revision {
		return changed
	}
	cur, ok := items[e.EntityId]
	if ok && cur.Revision >= e.Revision {
		return changed
	}

	if e.Operation == domain.OpDelete {
		v.tombstones[e.EntityId] = e.Revision
		delete(v.pending, e.EntityId)
		if !ok {
			return changed
		}
		delete(items, e.EntityId)
		if e.EntityType == domain.EntityList {
			// cards of a removed list are gone too; their own delete events set tombstones
			for id, c := range v.cards {
				if c.ParentId == e.EntityId {
					delete(v.cards, id)
				}
			}
		}
		return true
	}

	// create, move and update all carry the entity's full ordering state
	item := &Item{Id: e.EntityId, ParentId: e.BoardId, Order: e.OrderKey, Revision: e.Revision, Title: e.Title}
	if e.ParentId != nil {
		item.ParentId = *e.ParentId
	}
	if ok && item.Title == "" {
		item.Title = cur.Title
	}
	if p, found := v.pending[e.EntityId]; found {
		if p.revision > item.Revision {
			item.Order, item.Revision = p.order, p.revision
		}
		delete(v.pending, e.EntityId)
	}
	items[e.EntityId] = item
	return true
}

func (v *View) applyReindexed(items map[uuid.UUID]*Item, keys []domain.ReindexedKey) bool {
	changed := false
	for _, k := range keys {
		if rev, ok := v.tombstones[k.EntityId]; ok && rev >= k.Revision {
			continue
		}
		cur, ok := items[k.EntityId]
		if !ok {
			if p, found := v.pending[k.EntityId]; !found || p.revision < k.Revision {
				v.pending[k.EntityId] = keyUpdate{order: k.OrderKey, revision: k.Revision}
			}
			continue
		}
		if cur.Revision >= k.Revision {
			continue
		}
		cur.Order, cur.Revision = k.OrderKey, k.Revision
		changed = true
	}
	return changed
}

// Deleted reports whether the board itself was deleted.
func (v *View) Deleted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.deleted
}

// Lists returns the board's lists in display order.
func (v *View) Lists() []Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return sorted(v.lists, func(*Item) bool { return true })
}

// Cards returns the cards of one list in display order.
func (v *View) Cards(listId domain.ListId) []Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if _, ok := v.lists[listId]; !ok {
		return nil
	}
	return sorted(v.cards, func(c *Item) bool { return c.ParentId == listId })
}

// sorted orders by (key, id), the same order storage uses.
func sorted(items map[uuid.UUID]*Item, keep func(*Item) bool) []Item {
	var out []Item
	for _, it := range items {
		if keep(it) {
			out = append(out, *it)
		}
	}
	slices.SortFunc(out, func(a, b Item) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return slices.Compare(a.Id[:], b.Id[:])
	})
	return out
}
