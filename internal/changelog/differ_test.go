package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_LocalOnlyEntryGoesToRemoteDiff(t *testing.T) {
	local := []Entry{entry(EntityComic, "c1", ActionCreated, ts(1))}

	res := Diff(local, nil)

	require.Len(t, res.RemoteDiff.ToCreate.Comics, 1)
	assert.Equal(t, "c1", res.RemoteDiff.ToCreate.Comics[0].EntityID)
	assert.True(t, res.LocalDiff.Empty())
	assert.Empty(t, res.Conflicts)
}

func TestDiff_RemoteOnlyEntryGoesToLocalDiff(t *testing.T) {
	remote := []Entry{entry(EntityChapter, "ch1", ActionDeleted, ts(1))}

	res := Diff(nil, remote)

	assert.Equal(t, []string{"ch1"}, res.LocalDiff.ToDelete.ChapterIDs)
	assert.True(t, res.RemoteDiff.Empty())
	assert.Empty(t, res.Conflicts)
}

func TestDiff_LastWriteWinsIsOrderIndependent(t *testing.T) {
	older := entry(EntityComic, "c1", ActionUpdated, ts(10))
	newer := entry(EntityComic, "c1", ActionDeleted, ts(20))

	// b is newer regardless of which side it sits on or input order.
	res := Diff([]Entry{older}, []Entry{newer})
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, ResolutionRemote, res.Conflicts[0].Resolution)
	assert.Equal(t, []string{"c1"}, res.LocalDiff.ToDelete.ComicIDs)
	assert.True(t, res.RemoteDiff.Empty())

	res = Diff([]Entry{newer}, []Entry{older})
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, ResolutionLocal, res.Conflicts[0].Resolution)
	assert.Equal(t, []string{"c1"}, res.RemoteDiff.ToDelete.ComicIDs)
	assert.True(t, res.LocalDiff.Empty())
}

func TestDiff_ConflictSymmetry(t *testing.T) {
	a := []Entry{
		entry(EntityComic, "c1", ActionUpdated, ts(10)),
		entry(EntityReadProgress, "p1", ActionDeleted, ts(40)),
	}
	b := []Entry{
		entry(EntityComic, "c1", ActionDeleted, ts(30)),
		entry(EntityReadProgress, "p1", ActionUpdated, ts(20)),
	}

	ab := Diff(a, b)
	ba := Diff(b, a)

	require.Len(t, ab.Conflicts, 2)
	require.Len(t, ba.Conflicts, 2)

	inverted := map[Resolution]Resolution{ResolutionLocal: ResolutionRemote, ResolutionRemote: ResolutionLocal}
	for i, c := range ab.Conflicts {
		assert.Equal(t, c.EntityType, ba.Conflicts[i].EntityType)
		assert.Equal(t, c.EntityID, ba.Conflicts[i].EntityID)
		assert.Equal(t, inverted[c.Resolution], ba.Conflicts[i].Resolution)
	}
}

func TestDiff_EqualTimestampsNeverConflict(t *testing.T) {
	local := []Entry{entry(EntityComic, "c1", ActionCreated, ts(5))}
	remote := []Entry{entry(EntityComic, "c1", ActionUpdated, ts(5))}

	res := Diff(local, remote)

	assert.Empty(t, res.Conflicts)
	assert.True(t, res.LocalDiff.Empty())
	assert.True(t, res.RemoteDiff.Empty())
}

func TestDiff_SameActionTreatedAsConsistent(t *testing.T) {
	// Documented behavior: two updates at different times with the same
	// action are treated as already consistent and produce neither a diff
	// entry nor a conflict.
	local := []Entry{entry(EntityComic, "c1", ActionUpdated, ts(5))}
	remote := []Entry{entry(EntityComic, "c1", ActionUpdated, ts(50))}

	res := Diff(local, remote)

	assert.Empty(t, res.Conflicts)
	assert.True(t, res.LocalDiff.Empty())
	assert.True(t, res.RemoteDiff.Empty())
}

func TestDiff_ReadProgressConflictResolvesToNewerRemote(t *testing.T) {
	local := []Entry{entry(EntityReadProgress, "p1", ActionCreated, ts(10))}
	remote := []Entry{entry(EntityReadProgress, "p1", ActionUpdated, ts(30))}

	res := Diff(local, remote)

	require.Len(t, res.Conflicts, 1)
	c := res.Conflicts[0]
	assert.Equal(t, EntityReadProgress, c.EntityType)
	assert.Equal(t, "p1", c.EntityID)
	assert.Equal(t, ResolutionRemote, c.Resolution)
	assert.Equal(t, ts(10), c.LocalUpdatedAt)
	assert.Equal(t, ts(30), c.RemoteUpdatedAt)

	require.Len(t, res.LocalDiff.ToUpdate.ReadProgress, 1)
	assert.Equal(t, "p1", res.LocalDiff.ToUpdate.ReadProgress[0].EntityID)
}

func TestDiff_IgnoresLifecycleEntries(t *testing.T) {
	local := []Entry{entry(EntitySync, "s1", ActionSyncCompleted, ts(1))}
	remote := []Entry{entry(EntitySync, "s2", ActionSyncFailed, ts(2))}

	res := Diff(local, remote)

	assert.True(t, res.LocalDiff.Empty())
	assert.True(t, res.RemoteDiff.Empty())
	assert.Empty(t, res.Conflicts)
}

func TestDiff_UsesLatestEntryPerSide(t *testing.T) {
	local := []Entry{
		entry(EntityComic, "c1", ActionCreated, ts(1)),
		entry(EntityComic, "c1", ActionUpdated, ts(25)),
	}
	remote := []Entry{entry(EntityComic, "c1", ActionDeleted, ts(10))}

	res := Diff(local, remote)

	// Local's latest (update, ts 25) beats remote's delete at ts 10.
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, ResolutionLocal, res.Conflicts[0].Resolution)
	require.Len(t, res.RemoteDiff.ToUpdate.Comics, 1)
	assert.Equal(t, ts(25), res.RemoteDiff.ToUpdate.Comics[0].CreatedAt)
}
