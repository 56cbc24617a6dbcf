package objects

import (
	"context"
	"slices"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
)

// Write encodes obj and stores it under its hash.
func Write(ctx context.Context, store ports.ObjectStore, obj ContentAddressable) (domain.Ref, error) {
	payload, err := obj.ToBuffer()
	if err != nil {
		return "", err
	}
	ref := Hash(obj)
	if err := store.Put(ctx, ref, Encode(obj.Kind(), payload)); err != nil {
		return "", err
	}
	return ref, nil
}

// Read loads and decodes the object stored under ref.
func Read(ctx context.Context, store ports.ObjectStore, ref domain.Ref) (ContentAddressable, error) {
	data, err := store.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	kind, payload, err := Decode(data)
	if err != nil {
		return nil, zerr.With(err, "ref", ref.String())
	}

	switch kind {
	case KindSource:
		return NewSource(payload), nil
	case KindVersion:
		v, err := ParseVersion(payload)
		if err != nil {
			return nil, zerr.With(err, "ref", ref.String())
		}
		return v, nil
	default:
		err := zerr.With(zerr.Wrap(domain.ErrUnknownObjectKind, "cannot decode object"), "kind", string(kind))
		return nil, zerr.With(err, "ref", ref.String())
	}
}

// ReadVersion loads the version stored under ref.
func ReadVersion(ctx context.Context, store ports.ObjectStore, ref domain.Ref) (*Version, error) {
	obj, err := Read(ctx, store, ref)
	if err != nil {
		return nil, err
	}
	v, ok := obj.(*Version)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrMalformedObject, "object is not a version"), "kind", string(obj.Kind()))
		return nil, zerr.With(err, "ref", ref.String())
	}
	return v, nil
}

// ReadSource loads the blob stored under ref.
func ReadSource(ctx context.Context, store ports.ObjectStore, ref domain.Ref) (*Source, error) {
	obj, err := Read(ctx, store, ref)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(*Source)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrMalformedObject, "object is not a source"), "kind", string(obj.Kind()))
		return nil, zerr.With(err, "ref", ref.String())
	}
	return s, nil
}

// Reachable returns every ref reachable from roots by following Refs().
// A missing object fails the walk.
func Reachable(ctx context.Context, store ports.ObjectStore, roots []domain.Ref) (map[domain.Ref]struct{}, error) {
	seen := make(map[domain.Ref]struct{}, len(roots))
	queue := slices.Clone(roots)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ref := queue[0]
		queue = queue[1:]
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}

		obj, err := Read(ctx, store, ref)
		if err != nil {
			return nil, err
		}
		for _, child := range obj.Refs() {
			if _, ok := seen[child]; !ok {
				queue = append(queue, child)
			}
		}
	}

	return seen, nil
}

// Collect deletes every stored object not reachable from roots and returns the removed refs, sorted.
func Collect(ctx context.Context, store ports.ObjectStore, roots []domain.Ref) ([]domain.Ref, error) {
	live, err := Reachable(ctx, store, roots)
	if err != nil {
		return nil, err
	}

	all, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	var removed []domain.Ref
	for _, ref := range all {
		if _, ok := live[ref]; ok {
			continue
		}
		if err := store.Delete(ctx, ref); err != nil {
			return removed, err
		}
		removed = append(removed, ref)
	}

	slices.Sort(removed)
	return removed, nil
}
