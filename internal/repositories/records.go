package repositories

import (
	"context"
	"encoding/json"

	"tailor-backend/internal/store"
)

// collection maps one store collection onto an entity type. envelope copies
// the record id and timestamps into the entity; they are owned by the store
// and always win over whatever the JSON body says.
type collection[T any] struct {
	name     string
	envelope func(*T, store.Record)
}

func (c collection[T]) decode(rec store.Record) (*T, error) {
	var v T
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return nil, store.Wrap("decode", c.name, rec.ID, err)
	}
	c.envelope(&v, rec)
	return &v, nil
}

func (c collection[T]) encode(id string, v *T) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, store.Wrap("encode", c.name, id, err)
	}
	return data, nil
}

func (c collection[T]) list(ctx context.Context, s store.Store) ([]*T, error) {
	recs, err := s.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		v, err := c.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// listWhere returns the entities whose JSON field equals value. Stores that
// can filter do it themselves; the rest are filtered after a full list.
func (c collection[T]) listWhere(ctx context.Context, s store.Store, field, value string) ([]*T, error) {
	var recs []store.Record
	var err error
	if f, ok := s.(store.Filterer); ok {
		recs, err = f.ListWhere(ctx, c.name, field, value)
	} else if recs, err = s.List(ctx, c.name); err == nil {
		recs = store.FilterRecords(recs, field, value)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		v, err := c.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c collection[T]) get(ctx context.Context, s store.Store, id string) (*T, error) {
	rec, err := s.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(rec)
}

// create appends v under a store-assigned id and fills in its envelope.
func (c collection[T]) create(ctx context.Context, s store.Store, v *T) error {
	data, err := c.encode("", v)
	if err != nil {
		return err
	}
	rec, err := s.Append(ctx, c.name, data)
	if err != nil {
		return err
	}
	c.envelope(v, rec)
	return nil
}

// put creates or replaces the record with id and fills in v's envelope.
func (c collection[T]) put(ctx context.Context, s store.Store, id string, v *T) error {
	data, err := c.encode(id, v)
	if err != nil {
		return err
	}
	rec, err := s.Put(ctx, c.name, id, data)
	if err != nil {
		return err
	}
	c.envelope(v, rec)
	return nil
}

// update replaces an existing record; a missing id is ErrNotFound.
func (c collection[T]) update(ctx context.Context, s store.Store, id string, v *T) error {
	if _, err := s.Get(ctx, c.name, id); err != nil {
		return err
	}
	return c.put(ctx, s, id, v)
}

func (c collection[T]) remove(ctx context.Context, s store.Store, id string) error {
	return s.Remove(ctx, c.name, id)
}
