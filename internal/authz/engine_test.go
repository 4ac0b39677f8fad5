package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeMembers struct {
	roles map[[2]uint]Role
}

func (f *fakeMembers) GetRole(_ context.Context, projectID, userID uint) (Role, bool, error) {
	r, ok := f.roles[[2]uint{projectID, userID}]
	return r, ok, nil
}

func (f *fakeMembers) ProjectIDs(_ context.Context, userID uint) ([]uint, error) {
	var ids []uint
	for k := range f.roles {
		if k[1] == userID {
			ids = append(ids, k[0])
		}
	}
	return ids, nil
}

type fakeScopes struct{}

func (fakeScopes) TaskProject(context.Context, uint) (uint, error)   { return 0, ErrUnscoped }
func (fakeScopes) ThreadProject(context.Context, uint) (uint, error) { return 0, ErrUnscoped }

type projectResource uint

func (p projectResource) OwningProject(context.Context, ScopeLookup) (uint, error) {
	return uint(p), nil
}

type unscopedResource struct{}

func (unscopedResource) OwningProject(context.Context, ScopeLookup) (uint, error) {
	return 0, ErrUnscoped
}

func newTestEngine(roles map[[2]uint]Role) *Engine {
	return NewEngine(&fakeMembers{roles: roles}, fakeScopes{})
}

func TestRoleLadderMonotonicity(t *testing.T) {
	ladder := []Role{RoleViewer, RoleMember, RoleAdmin, RoleOwner}
	for i, r := range ladder {
		for j, min := range ladder {
			require.Equal(t, i >= j, r.AtLeast(min), "%s AtLeast %s", r, min)
		}
	}
	require.False(t, Role("bogus").AtLeast(RoleViewer))
	require.False(t, RoleOwner.AtLeast(Role("bogus")))
}

func TestEnginePredicatesPerRole(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(map[[2]uint]Role{
		{1, 10}: RoleViewer,
		{1, 11}: RoleMember,
		{1, 12}: RoleAdmin,
		{1, 13}: RoleOwner,
	})
	res := projectResource(1)

	cases := []struct {
		userID                       uint
		view, edit, admin, deletable bool
	}{
		{10, true, false, false, false},
		{11, true, true, false, false},
		{12, true, true, true, false},
		{13, true, true, true, true},
	}
	for _, tc := range cases {
		actor := &Actor{ID: tc.userID}
		got, err := eng.CanView(ctx, actor, res)
		require.NoError(t, err)
		require.Equal(t, tc.view, got)
		got, err = eng.CanEdit(ctx, actor, res)
		require.NoError(t, err)
		require.Equal(t, tc.edit, got)
		got, err = eng.CanAdmin(ctx, actor, res)
		require.NoError(t, err)
		require.Equal(t, tc.admin, got)
		got, err = eng.CanDelete(ctx, actor, res)
		require.NoError(t, err)
		require.Equal(t, tc.deletable, got)
	}
}

func TestEngineNonMemberAndAnonymous(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(map[[2]uint]Role{{1, 10}: RoleOwner})

	ok, err := eng.CanView(ctx, &Actor{ID: 99}, projectResource(1))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = eng.CanView(ctx, nil, projectResource(1))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = eng.CanDelete(ctx, nil, projectResource(1))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEngineSuperuserBypass(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(nil)
	root := &Actor{ID: 1, IsSuperuser: true}

	ok, err := eng.CanDelete(ctx, root, projectResource(42))
	require.NoError(t, err)
	require.True(t, ok)

	// Superusers never touch scope resolution, so even unresolvable
	// resources pass.
	ok, err = eng.Can(ctx, root, RoleOwner, unscopedResource{})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEngineUnscopedResourceDenies(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(map[[2]uint]Role{{1, 10}: RoleOwner})

	ok, err := eng.CanView(ctx, &Actor{ID: 10}, unscopedResource{})
	require.ErrorIs(t, err, ErrUnscoped)
	require.False(t, ok)
}

func TestEngineRoleFor(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(map[[2]uint]Role{{1, 10}: RoleAdmin})

	role, ok, err := eng.RoleFor(ctx, &Actor{ID: 10}, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, RoleAdmin, role)

	_, ok, err = eng.RoleFor(ctx, &Actor{ID: 11}, 1)
	require.NoError(t, err)
	require.False(t, ok)

	role, ok, err = eng.RoleFor(ctx, &Actor{ID: 99, IsSuperuser: true}, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, RoleOwner, role)

	_, ok, err = eng.RoleFor(ctx, nil, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEngineVisibleProjects(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(map[[2]uint]Role{
		{1, 10}: RoleViewer,
		{2, 10}: RoleOwner,
		{3, 11}: RoleMember,
	})

	ids, all, err := eng.VisibleProjects(ctx, &Actor{ID: 10})
	require.NoError(t, err)
	require.False(t, all)
	require.ElementsMatch(t, []uint{1, 2}, ids)

	ids, all, err = eng.VisibleProjects(ctx, &Actor{ID: 1, IsSuperuser: true})
	require.NoError(t, err)
	require.True(t, all)
	require.Nil(t, ids)

	ids, all, err = eng.VisibleProjects(ctx, nil)
	require.NoError(t, err)
	require.False(t, all)
	require.Empty(t, ids)
}
