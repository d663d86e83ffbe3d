package database

import (
	"sort"
	"testing"
)

func TestMigrationNamesOrderedAndComplete(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("migrationNames: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no embedded migrations found")
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("migrations not in apply order: %v", names)
	}
	if names[0] != "001_schema.sql" {
		t.Errorf("first migration = %q, want 001_schema.sql", names[0])
	}
	for _, name := range names {
		if raw, err := migrationsFS.ReadFile("migrations/" + name); err != nil || len(raw) == 0 {
			t.Errorf("migration %s unreadable or empty: %v", name, err)
		}
	}
}
