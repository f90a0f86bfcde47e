package serviceimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelMapperRefreshAndResolve(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo, &fakeImageStore{})
	mapper := NewLabelMapper(repo)

	alice, err := svc.Register(context.Background(), validInput("Alice"))
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), validInput("Bob"))
	require.NoError(t, err)

	require.NoError(t, mapper.Refresh(context.Background()))
	assert.Equal(t, 2, mapper.Count())

	entry, ok := mapper.Resolve(alice.LabelID)
	require.True(t, ok)
	assert.Equal(t, "Alice", entry.Name)
	assert.Equal(t, "Engineering", entry.Department)

	_, ok = mapper.Resolve(99)
	assert.False(t, ok, "unknown labels must not resolve")
}

func TestLabelMapperEmptyBeforeRefresh(t *testing.T) {
	mapper := NewLabelMapper(newFakeStudentRepo())

	assert.Equal(t, 0, mapper.Count())
	_, ok := mapper.Resolve(0)
	assert.False(t, ok)
}

func TestLabelMapperRefreshDropsRemovedSubjects(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo, &fakeImageStore{})
	mapper := NewLabelMapper(repo)

	alice, err := svc.Register(context.Background(), validInput("Alice"))
	require.NoError(t, err)
	require.NoError(t, mapper.Refresh(context.Background()))

	require.NoError(t, svc.Delete(context.Background(), alice.ID))

	// Stale entries survive until the next refresh; recognition sessions
	// refresh on start.
	_, ok := mapper.Resolve(alice.LabelID)
	assert.True(t, ok)

	require.NoError(t, mapper.Refresh(context.Background()))
	_, ok = mapper.Resolve(alice.LabelID)
	assert.False(t, ok)
}
