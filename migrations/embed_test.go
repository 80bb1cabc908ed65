package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	seen := map[string]int{}
	for _, f := range files {
		base := strings.TrimSuffix(strings.TrimSuffix(f, ".up.sql"), ".down.sql")
		seen[base]++
	}
	for base, n := range seen {
		if n != 2 {
			t.Errorf("migration %s has %d files, want up and down", base, n)
		}
	}
}
