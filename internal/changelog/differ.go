package changelog

import "sort"

// syncedEntityTypes are the entity types subject to diffing, in apply order
// (parents before dependents).
var syncedEntityTypes = []EntityType{EntityComic, EntityChapter, EntityReadProgress}

// DiffResult is the outcome of reconciling two replicas.
//
// LocalDiff holds changes that must be applied locally, RemoteDiff holds
// changes that must be pushed to the remote side.
type DiffResult struct {
	LocalDiff  EntityDiff `json:"localDiff"`
	RemoteDiff EntityDiff `json:"remoteDiff"`
	Conflicts  []Conflict `json:"conflicts"`
}

// Diff reconciles the latest local and remote entries per entity using
// last-write-wins.
//
// For each entity id present on both sides: equal CreatedAt or equal Action
// means the sides are already consistent and nothing is emitted. Otherwise
// the entry with the greater CreatedAt wins, a Conflict is recorded, and the
// winning entry is classified into the opposite side's diff so it propagates
// to the loser. One-sided entries are classified without conflict.
func Diff(localEntries, remoteEntries []Entry) DiffResult {
	local := Process(localEntries)
	remote := Process(remoteEntries)

	var res DiffResult

	for _, t := range syncedEntityTypes {
		for _, id := range unionIDs(local[t], remote[t]) {
			le, hasLocal := local.Latest(t, id)
			re, hasRemote := remote.Latest(t, id)

			switch {
			case hasLocal && !hasRemote:
				res.RemoteDiff.add(le)
			case !hasLocal && hasRemote:
				res.LocalDiff.add(re)
			default:
				// Equal timestamps or equal actions are treated as already
				// consistent. In practice equal timestamps only arise from
				// re-processing the same entry.
				if le.CreatedAt.Equal(re.CreatedAt) || le.Action == re.Action {
					continue
				}
				conflict := Conflict{
					EntityType:      t,
					EntityID:        id,
					LocalUpdatedAt:  le.CreatedAt,
					RemoteUpdatedAt: re.CreatedAt,
				}
				if le.CreatedAt.After(re.CreatedAt) {
					conflict.Resolution = ResolutionLocal
					res.RemoteDiff.add(le)
				} else {
					conflict.Resolution = ResolutionRemote
					res.LocalDiff.add(re)
				}
				res.Conflicts = append(res.Conflicts, conflict)
			}
		}
	}

	return res
}

// unionIDs returns the sorted union of ids present on either side. Sorting
// keeps the classification and conflict order deterministic regardless of
// map iteration order.
func unionIDs(local, remote map[string]Entry) []string {
	seen := make(map[string]struct{}, len(local)+len(remote))
	for id := range local {
		seen[id] = struct{}{}
	}
	for id := range remote {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
