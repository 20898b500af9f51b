package changelog

// Merge collapses two entry streams into one canonical stream keeping only
// the latest entry per entity across both replicas.
//
// Both lists are concatenated and stably sorted by CreatedAt ascending, then
// inserted in order so later entries overwrite earlier ones for the same
// (entityType, entityId) identity. The result keeps first-seen identity
// order, which is deterministic because the sort is stable.
//
// Merge is for presenting and debugging merged history; applies go through
// Diff, which also reports conflicts.
func Merge(localEntries, remoteEntries []Entry) []Entry {
	combined := make([]Entry, 0, len(localEntries)+len(remoteEntries))
	combined = append(combined, localEntries...)
	combined = append(combined, remoteEntries...)

	position := make(map[string]int)
	merged := make([]Entry, 0, len(combined))

	for _, e := range sortedByCreatedAt(combined) {
		key := e.Key()
		if i, ok := position[key]; ok {
			merged[i] = e
			continue
		}
		position[key] = len(merged)
		merged = append(merged, e)
	}

	return merged
}
