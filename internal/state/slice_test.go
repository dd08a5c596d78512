package state

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string
	Name string
}

func (w widget) Key() string { return w.ID }

func seeded() Slice[widget] {
	return Slice[widget]{Items: []widget{{ID: "a", Name: "alpha"}, {ID: "b", Name: "beta"}}}
}

func TestReduceFetchAllReplacesCollection(t *testing.T) {
	payload := []widget{{ID: "z", Name: "zeta"}, {ID: "y", Name: "ypsilon"}, {ID: "x"}}

	s := Reduce(seeded(), Action{Type: "widgets/fetchAll", Phase: Pending}, MergeReplaceAll)
	assert.True(t, s.Status().IsLoading)

	s = Reduce(s, Action{Type: "widgets/fetchAll", Phase: Fulfilled, Payload: payload}, MergeReplaceAll)

	assert.Equal(t, payload, s.Items)
	assert.Equal(t, Status{IsSuccess: true}, s.Status())
	assert.Equal(t, Fulfilled, s.Op("widgets/fetchAll").Phase)
}

func TestReduceMergePolicies(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		merge  Merge
		want   []widget
	}{
		{
			name:   "append created item",
			action: Action{Type: "widgets/create", Phase: Fulfilled, Payload: widget{ID: "c"}},
			merge:  MergeAppend,
			want:   []widget{{ID: "a", Name: "alpha"}, {ID: "b", Name: "beta"}, {ID: "c"}},
		},
		{
			name:   "replace by identifier",
			action: Action{Type: "widgets/update", Phase: Fulfilled, Payload: widget{ID: "b", Name: "bravo"}},
			merge:  MergeReplace,
			want:   []widget{{ID: "a", Name: "alpha"}, {ID: "b", Name: "bravo"}},
		},
		{
			name:   "remove uses request identifier",
			action: Action{Type: "widgets/delete", Phase: Fulfilled, Arg: "a", Payload: map[string]string{"message": "deleted"}},
			merge:  MergeRemove,
			want:   []widget{{ID: "b", Name: "beta"}},
		},
		{
			name:   "remove absent identifier is a no-op",
			action: Action{Type: "widgets/delete", Phase: Fulfilled, Arg: "missing"},
			merge:  MergeRemove,
			want:   []widget{{ID: "a", Name: "alpha"}, {ID: "b", Name: "beta"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(seeded(), tt.action, tt.merge)
			assert.Equal(t, tt.want, s.Items)
			assert.False(t, s.Status().IsError)
		})
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := seeded()
	_ = Reduce(before, Action{Type: "widgets/update", Phase: Fulfilled, Payload: widget{ID: "a", Name: "changed"}}, MergeReplace)
	_ = Reduce(before, Action{Type: "widgets/delete", Phase: Fulfilled, Arg: "b"}, MergeRemove)

	assert.Equal(t, seeded().Items, before.Items)
}

func TestReduceRejectedKeepsCollection(t *testing.T) {
	s := Reduce(seeded(), Action{Type: "widgets/fetchAll", Phase: Pending}, MergeReplaceAll)
	s = Reduce(s, Action{Type: "widgets/fetchAll", Phase: Rejected, Err: "Failed to fetch widgets"}, MergeReplaceAll)

	assert.Equal(t, seeded().Items, s.Items)
	assert.False(t, s.Status().IsLoading)
	assert.True(t, s.Status().IsError)
	assert.Equal(t, "Failed to fetch widgets", s.Status().Message)
}

func TestReduceWrongPayloadIsRecordedAsError(t *testing.T) {
	s := Reduce(seeded(), Action{Type: "widgets/fetchAll", Phase: Fulfilled, Payload: "oops"}, MergeReplaceAll)

	assert.Equal(t, seeded().Items, s.Items)
	assert.True(t, s.Status().IsError)
}

func TestResetKeepsCollection(t *testing.T) {
	s := Reduce(seeded(), Action{Type: "widgets/select", Phase: Fulfilled, Payload: widget{ID: "a"}}, MergeSelect)
	s = Reduce(s, Action{Type: "widgets/update", Phase: Rejected, Err: "nope"}, MergeReplace)

	reset := s.Reset()

	assert.Equal(t, Status{}, reset.Status())
	assert.Equal(t, Idle, reset.Op("widgets/update").Phase)
	assert.Equal(t, s.Items, reset.Items)
	require.NotNil(t, reset.Selected)
	assert.Equal(t, "a", reset.Selected.ID)
}

func TestRemoveClearsSelectedItem(t *testing.T) {
	s := Reduce(seeded(), Action{Type: "widgets/get", Phase: Fulfilled, Payload: widget{ID: "b"}}, MergeSelect)
	s = Reduce(s, Action{Type: "widgets/delete", Phase: Fulfilled, Arg: "b"}, MergeRemove)

	assert.Nil(t, s.Selected)
}

func TestReduceItem(t *testing.T) {
	var i Item[widget]
	i = ReduceItem(i, Action{Type: "cart/get", Phase: Pending})
	assert.True(t, i.Status().IsLoading)

	i = ReduceItem(i, Action{Type: "cart/get", Phase: Fulfilled, Payload: widget{ID: "cart"}})
	require.NotNil(t, i.Value)
	assert.Equal(t, "cart", i.Value.ID)

	i = ReduceItem(i, Action{Type: "cart/add", Phase: Rejected, Err: "Failed to add to cart"})
	require.NotNil(t, i.Value)
	assert.True(t, i.Status().IsError)
}

func TestIdentityDerivesAuthentication(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sign := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
		s, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name string
		id   Identity[widget]
		want bool
	}{
		{"empty", Identity[widget]{}, false},
		{"token without principal", Identity[widget]{Token: "opaque"}, false},
		{"principal without token", Identity[widget]{Principal: &widget{ID: "u"}}, false},
		{"opaque token", Identity[widget]{}.SignIn(widget{ID: "u"}, "opaque"), true},
		{"live jwt", Identity[widget]{}.SignIn(widget{ID: "u"}, sign(now.Add(time.Hour))), true},
		{"expired jwt", Identity[widget]{}.SignIn(widget{ID: "u"}, sign(now.Add(-time.Minute))), false},
		{"signed out", Identity[widget]{}.SignIn(widget{ID: "u"}, "opaque").SignOut(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.AuthenticatedAt(now))
		})
	}
}
