package changelog

// Grouped maps entity type -> entity id -> the latest entry seen for that
// identity.
type Grouped map[EntityType]map[string]Entry

// Latest returns the latest entry for the given identity.
func (g Grouped) Latest(t EntityType, id string) (Entry, bool) {
	byID, ok := g[t]
	if !ok {
		return Entry{}, false
	}
	e, ok := byID[id]
	return e, ok
}

// Process groups raw entries into "latest entry per entity" maps.
//
// Entries are stably sorted by CreatedAt ascending (missing timestamps sort
// as the zero time, ties keep input order) and inserted in sorted order, so
// a later write naturally overwrites an earlier one for the same id without
// any explicit timestamp comparison. Lifecycle entries are skipped entirely.
// The input slice is not modified.
func Process(entries []Entry) Grouped {
	grouped := make(Grouped)
	for _, e := range sortedByCreatedAt(entries) {
		if e.IsLifecycle() {
			continue
		}
		byID, ok := grouped[e.EntityType]
		if !ok {
			byID = make(map[string]Entry)
			grouped[e.EntityType] = byID
		}
		byID[e.EntityID] = e
	}
	return grouped
}
