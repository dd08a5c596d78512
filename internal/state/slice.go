package state

import (
	"fmt"
	"maps"
	"slices"
)

// Keyed is any entity that can be matched by identifier inside a collection.
type Keyed interface {
	Key() string
}

// Merge says how a fulfilled operation changes a collection.
type Merge int

const (
	MergeNone       Merge = iota // status only
	MergeReplaceAll              // payload []T replaces Items
	MergeAppend                  // payload T is appended
	MergeReplace                 // payload T replaces the element with the same key
	MergeRemove                  // element whose key equals the action Arg is dropped
	MergeSelect                  // payload T becomes Selected
)

// Tracker records the latest operation and the lifecycle of every operation type.
type Tracker struct {
	Last Request
	Ops  map[string]Request
}

// Track returns a copy of t with a applied. The receiver is never mutated.
func (t Tracker) Track(a Action) Tracker {
	ops := make(map[string]Request, len(t.Ops)+1)
	maps.Copy(ops, t.Ops)
	ops[a.Type] = ops[a.Type].Apply(a)
	return Tracker{Last: t.Last.Apply(a), Ops: ops}
}

func (t Tracker) Status() Status {
	return t.Last.Status()
}

// Op returns the lifecycle of one operation type; unknown types are Idle.
func (t Tracker) Op(opType string) Request {
	return t.Ops[opType]
}

// Slice is the state of one entity collection: a RemoteCollection plus an
// optional RemoteItem and the request tracking for both.
type Slice[T Keyed] struct {
	Tracker
	Items    []T
	Selected *T
}

// Reset returns every flag to Idle and keeps Items and Selected.
func (s Slice[T]) Reset() Slice[T] {
	s.Tracker = Tracker{}
	return s
}

// ClearSelected drops the selected item, used when navigating away.
func (s Slice[T]) ClearSelected() Slice[T] {
	s.Selected = nil
	return s
}

// Find returns the element whose key matches id.
func (s Slice[T]) Find(id string) (T, bool) {
	for _, item := range s.Items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Reduce folds a into s using merge for fulfilled actions. Rejected and
// pending actions only touch the tracker, so a failure never changes Items.
func Reduce[T Keyed](s Slice[T], a Action, merge Merge) Slice[T] {
	if a.Phase != Fulfilled {
		s.Tracker = s.Tracker.Track(a)
		return s
	}

	next, err := applyMerge(s, a, merge)
	if err != nil {
		s.Tracker = s.Tracker.Track(Action{Type: a.Type, Phase: Rejected, Err: err.Error()})
		return s
	}
	next.Tracker = s.Tracker.Track(a)
	return next
}

func applyMerge[T Keyed](s Slice[T], a Action, merge Merge) (Slice[T], error) {
	switch merge {
	case MergeNone:
		return s, nil
	case MergeReplaceAll:
		items, ok := a.Payload.([]T)
		if !ok {
			return s, payloadError[[]T](a)
		}
		s.Items = slices.Clone(items)
		return s, nil
	case MergeAppend:
		item, ok := a.Payload.(T)
		if !ok {
			return s, payloadError[T](a)
		}
		s.Items = append(slices.Clone(s.Items), item)
		return s, nil
	case MergeReplace:
		item, ok := a.Payload.(T)
		if !ok {
			return s, payloadError[T](a)
		}
		items := slices.Clone(s.Items)
		for i := range items {
			if items[i].Key() == item.Key() {
				items[i] = item
			}
		}
		s.Items = items
		if s.Selected != nil && (*s.Selected).Key() == item.Key() {
			s.Selected = &item
		}
		return s, nil
	case MergeRemove:
		id, ok := keyOf(a.Arg)
		if !ok {
			return s, fmt.Errorf("%s: remove needs an identifier argument, got %T", a.Type, a.Arg)
		}
		s.Items = slices.DeleteFunc(slices.Clone(s.Items), func(item T) bool {
			return item.Key() == id
		})
		if s.Selected != nil && (*s.Selected).Key() == id {
			s.Selected = nil
		}
		return s, nil
	case MergeSelect:
		item, ok := a.Payload.(T)
		if !ok {
			return s, payloadError[T](a)
		}
		s.Selected = &item
		return s, nil
	default:
		return s, fmt.Errorf("%s: unknown merge policy %d", a.Type, merge)
	}
}

// Item is a single remote value that is replaced wholesale, like a cart.
type Item[T any] struct {
	Tracker
	Value *T
}

func (i Item[T]) Reset() Item[T] {
	i.Tracker = Tracker{}
	return i
}

// ReduceItem sets Value from a fulfilled payload of type T. A fulfilled
// action that carries no payload leaves Value unchanged.
func ReduceItem[T any](i Item[T], a Action) Item[T] {
	if a.Phase == Fulfilled && a.Payload != nil {
		v, ok := a.Payload.(T)
		if !ok {
			i.Tracker = i.Tracker.Track(Action{Type: a.Type, Phase: Rejected, Err: payloadError[T](a).Error()})
			return i
		}
		i.Value = &v
	}
	i.Tracker = i.Tracker.Track(a)
	return i
}

func keyOf(arg any) (string, bool) {
	switch v := arg.(type) {
	case string:
		return v, v != ""
	case Keyed:
		return v.Key(), true
	default:
		return "", false
	}
}

func payloadError[T any](a Action) error {
	var want T
	return fmt.Errorf("%s: unexpected payload %T, want %T", a.Type, a.Payload, want)
}
