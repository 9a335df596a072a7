package postgres

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql": {Data: []byte("SELECT 2")},
		"001_a.sql": {Data: []byte("SELECT 1")},
		"README.md": {Data: []byte("notes")},
		"003_c.sql": {Data: []byte("SELECT 3")},
		"old/x.sql": {Data: []byte("SELECT 0")},
	}

	got, err := pendingMigrations(fsys, map[string]bool{"002_b.sql": true})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"001_a.sql", "003_c.sql"}
	if len(got) != len(want) {
		t.Fatalf("pendingMigrations() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pendingMigrations()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	names, err := pendingMigrations(sub, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 || names[0] != "001_records.sql" {
		t.Errorf("embedded migrations = %v, want 001_records.sql first", names)
	}
}

func TestFilterQuery(t *testing.T) {
	query, err := filterQuery("bills", "customer_id")
	if err != nil {
		t.Fatalf("filterQuery() error = %v", err)
	}
	for _, want := range []string{"collection = 'bills'", "(data->>'customer_id') = $1", "ORDER BY seq"} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q does not contain %q", query, want)
		}
	}

	for _, bad := range [][2]string{
		{"bills", "customer_id' OR 1=1 --"},
		{"bills; DROP TABLE records", "customer_id"},
		{"bills", ""},
	} {
		if _, err := filterQuery(bad[0], bad[1]); err == nil {
			t.Errorf("filterQuery(%q, %q) accepted", bad[0], bad[1])
		}
	}
}
