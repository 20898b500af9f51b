package changelog

import "time"

// Resolution says which replica won a conflict.
type Resolution string

const (
	ResolutionLocal  Resolution = "local"
	ResolutionRemote Resolution = "remote"
)

// Conflict records one divergent entity. Conflicts are always auto-resolved
// by last-write-wins but still reported, since no interactive merge UI
// exists.
type Conflict struct {
	EntityType      EntityType `json:"entityType"`
	EntityID        string     `json:"entityId"`
	LocalUpdatedAt  time.Time  `json:"localUpdatedAt"`
	RemoteUpdatedAt time.Time  `json:"remoteUpdatedAt"`
	Resolution      Resolution `json:"resolution"`
}

// EntryBuckets holds classified entries per entity type. The readProgress
// key is intentionally not pluralized.
type EntryBuckets struct {
	Comics       []Entry `json:"comics"`
	Chapters     []Entry `json:"chapters"`
	ReadProgress []Entry `json:"readProgress"`
}

// IDBuckets holds ids of entities to delete, per entity type.
type IDBuckets struct {
	ComicIDs        []string `json:"comicIds"`
	ChapterIDs      []string `json:"chapterIds"`
	ReadProgressIDs []string `json:"readProgressIds"`
}

// EntityDiff is the materialized set of instructions for one direction of
// sync.
type EntityDiff struct {
	ToCreate EntryBuckets `json:"toCreate"`
	ToUpdate EntryBuckets `json:"toUpdate"`
	ToDelete IDBuckets    `json:"toDelete"`
}

// add classifies a single entry into the diff by its action.
func (d *EntityDiff) add(e Entry) {
	switch e.Action {
	case ActionCreated:
		d.ToCreate.put(e)
	case ActionUpdated:
		d.ToUpdate.put(e)
	case ActionDeleted:
		d.ToDelete.put(e)
	}
}

func (b *EntryBuckets) put(e Entry) {
	switch e.EntityType {
	case EntityComic:
		b.Comics = append(b.Comics, e)
	case EntityChapter:
		b.Chapters = append(b.Chapters, e)
	case EntityReadProgress:
		b.ReadProgress = append(b.ReadProgress, e)
	}
}

func (b *IDBuckets) put(e Entry) {
	switch e.EntityType {
	case EntityComic:
		b.ComicIDs = append(b.ComicIDs, e.EntityID)
	case EntityChapter:
		b.ChapterIDs = append(b.ChapterIDs, e.EntityID)
	case EntityReadProgress:
		b.ReadProgressIDs = append(b.ReadProgressIDs, e.EntityID)
	}
}

// Empty reports whether the diff carries no instructions.
func (d EntityDiff) Empty() bool {
	return len(d.ToCreate.Comics) == 0 && len(d.ToCreate.Chapters) == 0 && len(d.ToCreate.ReadProgress) == 0 &&
		len(d.ToUpdate.Comics) == 0 && len(d.ToUpdate.Chapters) == 0 && len(d.ToUpdate.ReadProgress) == 0 &&
		len(d.ToDelete.ComicIDs) == 0 && len(d.ToDelete.ChapterIDs) == 0 && len(d.ToDelete.ReadProgressIDs) == 0
}
