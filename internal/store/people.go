package store

import (
	"context"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

const (
	OpFetchDoctors = KeyDoctors + "/fetchAll"
	OpFetchDoctor  = KeyDoctors + "/fetchOne"
	OpDeleteDoctor = KeyDoctors + "/delete"

	OpFetchUsers = KeyUsers + "/fetchAll"
	OpDeleteUser = KeyUsers + "/delete"
)

var doctorMerges = map[string]state.Merge{
	OpFetchDoctors: state.MergeReplaceAll,
	OpFetchDoctor:  state.MergeSelect,
	OpDeleteDoctor: state.MergeRemove,
}

var userMerges = map[string]state.Merge{
	OpFetchUsers: state.MergeReplaceAll,
	OpDeleteUser: state.MergeRemove,
}

func (s *Store) FetchDoctors(ctx context.Context) ([]marketplace.Doctor, error) {
	return run[[]marketplace.Doctor](ctx, s, operation(OpFetchDoctors, nil, s.client.Doctors().List))
}

func (s *Store) FetchDoctor(ctx context.Context, id string) (marketplace.Doctor, error) {
	op := operation(OpFetchDoctor, id, func(ctx context.Context) (marketplace.Doctor, error) {
		return s.client.Doctors().Get(ctx, id)
	})
	return run[marketplace.Doctor](ctx, s, op)
}

// DeleteDoctor is an admin operation.
func (s *Store) DeleteDoctor(ctx context.Context, id string) error {
	return s.Run(ctx, deletion(OpDeleteDoctor, id, s.client.Doctors().Delete).notifying("Doctor removed")).Err
}

// FetchUsers lists every patient account. Admin only.
func (s *Store) FetchUsers(ctx context.Context) ([]marketplace.User, error) {
	return run[[]marketplace.User](ctx, s, operation(OpFetchUsers, nil, s.client.Users().List))
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.Run(ctx, deletion(OpDeleteUser, id, s.client.Users().Delete).notifying("User removed")).Err
}
