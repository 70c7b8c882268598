package storage

// OpenSnapshot returns a read-only view of db. Databases that implement
// Snapshotter give a consistent point-in-time view; others are wrapped so
// reads go straight to the DB.
func OpenSnapshot(db DB) Snapshot {
	if s, ok := db.(Snapshotter); ok {
		return s.Snapshot()
	}
	return liveSnapshot{db}
}

type liveSnapshot struct {
	Reader
}

func (liveSnapshot) Release() {}
