package history

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "a2l-forge-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM events`).Scan(&count); err != nil {
		t.Fatalf("events table missing: %v", err)
	}
}

func TestRecordFillsIDAndTime(t *testing.T) {
	db := testDB(t)
	e, err := db.Record(Entry{Action: ActionLoaded, Path: "ecu.a2l", Project: "Demo", Checksum: "abc"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", e.ID, err)
	}
	if e.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestListNewestFirstWithFilter(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, p := range []string{"a.a2l", "b.a2l", "a.a2l"} {
		if _, err := db.Record(Entry{Action: ActionSaved, Path: p, CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, total, err := db.List(0, 0, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("total=%d len=%d, want 3", total, len(all))
	}
	if !all[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("first entry at %v, want newest", all[0].CreatedAt)
	}
	if all[0].Action != ActionSaved {
		t.Errorf("action = %q", all[0].Action)
	}

	onlyA, total, err := db.List(1, 0, "a.a2l")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(onlyA) != 1 {
		t.Errorf("total=%d len=%d, want 2 and 1", total, len(onlyA))
	}

	page, _, err := db.List(10, 5, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("offset past end returned %d entries", len(page))
	}
}
