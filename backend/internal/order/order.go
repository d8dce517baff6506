// Package order allocates order keys for items of a container (a board's lists or a list's cards).
//
// Keys are float64 values compared as numbers. A new item gets the midpoint of its future
// neighbors, or a fixed step past the edge of the container, so no sibling is rewritten on
// insert or move. When two neighbors are so close that no float64 lies strictly between them
// the allocator reports errors.ErrOrderSpaceExhausted and the caller reindexes the container.
package order

import (
	"cmp"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/itchan-dev/boardsync/shared/errors"
)

const DefaultStep = 1024.0

type Allocator struct {
	step float64
}

// New returns an allocator spacing edge inserts and reindexed keys by step.
// A non-positive step selects DefaultStep.
func New(step float64) *Allocator {
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		step = DefaultStep
	}
	return &Allocator{step: step}
}

// Base is the key of the first item in an empty container.
func (a *Allocator) Base() domain.OrderKey {
	return a.step
}

// Between returns a key strictly between prev and next. Nil means the container boundary.
func (a *Allocator) Between(prev, next *domain.OrderKey) (domain.OrderKey, error) {
	var key domain.OrderKey
	switch {
	case prev == nil && next == nil:
		return a.Base(), nil
	case prev == nil:
		key = *next - a.step
	case next == nil:
		key = *prev + a.step
	default:
		key = *prev + (*next-*prev)/2
	}

	if math.IsInf(key, 0) || math.IsNaN(key) {
		return 0, errors.ErrOrderSpaceExhausted
	}
	if prev != nil && !(*prev < key) {
		return 0, errors.ErrOrderSpaceExhausted
	}
	if next != nil && !(key < *next) {
		return 0, errors.ErrOrderSpaceExhausted
	}
	return key, nil
}

// Place computes the key for an item inserted into siblings at pos.
// siblings must not contain the item being placed.
func (a *Allocator) Place(siblings []domain.Sibling, pos domain.Position) (domain.OrderKey, error) {
	i, err := Index(siblings, pos)
	if err != nil {
		return 0, err
	}

	var prev, next *domain.OrderKey
	if i > 0 {
		prev = &siblings[i-1].Order
	}
	if i < len(siblings) {
		next = &siblings[i].Order
	}
	return a.Between(prev, next)
}

// Reindex returns siblings in their current order with evenly spaced keys.
// The input slice is not modified.
func (a *Allocator) Reindex(siblings []domain.Sibling) []domain.Sibling {
	out := slices.Clone(siblings)
	Sort(out)
	for i := range out {
		out[i].Order = a.step * float64(i+1)
	}
	return out
}

// Index resolves pos to the slot the new item will occupy in siblings, so that the item ends up
// before siblings[i]. Anchors that are not siblings, or an After/Before pair that are not
// adjacent, are rejected with ErrInvalidPosition.
func Index(siblings []domain.Sibling, pos domain.Position) (int, error) {
	if pos.IsEnd() {
		return len(siblings), nil
	}

	find := func(id uuid.UUID) int {
		return slices.IndexFunc(siblings, func(s domain.Sibling) bool { return s.Id == id })
	}

	after, before := -1, -1
	if pos.After != nil {
		if after = find(*pos.After); after < 0 {
			return 0, errors.ErrInvalidPosition
		}
	}
	if pos.Before != nil {
		if before = find(*pos.Before); before < 0 {
			return 0, errors.ErrInvalidPosition
		}
	}

	switch {
	case pos.After != nil && pos.Before != nil:
		if before != after+1 {
			return 0, errors.ErrInvalidPosition
		}
		return before, nil
	case pos.After != nil:
		return after + 1, nil
	default:
		return before, nil
	}
}

// Sort orders siblings by key, breaking ties by id so every reader sees the same sequence.
func Sort(siblings []domain.Sibling) {
	slices.SortStableFunc(siblings, func(x, y domain.Sibling) int {
		if c := cmp.Compare(x.Order, y.Order); c != 0 {
			return c
		}
		return slices.Compare(x.Id[:], y.Id[:])
	})
}

// Without returns siblings minus the item with the given id.
func Without(siblings []domain.Sibling, id uuid.UUID) []domain.Sibling {
	return slices.DeleteFunc(slices.Clone(siblings), func(s domain.Sibling) bool { return s.Id == id })
}
