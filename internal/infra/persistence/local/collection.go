package local

import (
	"context"
	"slices"

	"rewards/internal/errors"
	"rewards/internal/infra/kv"
)

// collection is one JSON snapshot key. Every write replaces the whole snapshot;
// concurrent writers race and the last Put wins.
type collection[T any] struct {
	store kv.Store
	key   string
	seed  func() []*T
	id    func(*T) string
}

func (c *collection[T]) load(ctx context.Context) ([]*T, error) {
	var items []*T
	found, err := kv.GetJSON(ctx, c.store, c.key, &items)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", c.key)
	}
	if !found {
		return c.seed(), nil
	}

	return items, nil
}

func (c *collection[T]) save(ctx context.Context, items []*T) error {
	if items == nil {
		items = []*T{}
	}

	return errors.Wrapf(kv.PutJSON(ctx, c.store, c.key, items), "save %s", c.key)
}

func (c *collection[T]) find(ctx context.Context, match func(*T) bool) (*T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if match(item) {
			return item, nil
		}
	}

	return nil, nil
}

func (c *collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	return c.find(ctx, func(item *T) bool { return c.id(item) == id })
}

func (c *collection[T]) filter(ctx context.Context, keep func(*T) bool) ([]*T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(items, func(item *T) bool { return !keep(item) }), nil
}

func (c *collection[T]) append(ctx context.Context, item *T) error {
	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	return c.save(ctx, append(items, item))
}

func (c *collection[T]) prepend(ctx context.Context, item *T) error {
	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	return c.save(ctx, append([]*T{item}, items...))
}

// replace swaps the stored item with the same id.
func (c *collection[T]) replace(ctx context.Context, item *T) error {
	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(items, func(existing *T) bool { return c.id(existing) == c.id(item) })
	if idx < 0 {
		return errors.Wrapf(errNotFound, "%s/%s", c.key, c.id(item))
	}
	items[idx] = item

	return c.save(ctx, items)
}

func (c *collection[T]) remove(ctx context.Context, id string) error {
	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	kept := slices.DeleteFunc(items, func(existing *T) bool { return c.id(existing) == id })
	if len(kept) == len(items) {
		return errors.Wrapf(errNotFound, "%s/%s", c.key, id)
	}

	return c.save(ctx, kept)
}
