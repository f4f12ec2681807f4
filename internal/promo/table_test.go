package promo

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// writeFile creates a promo file in a temp dir and returns its path
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestTable_Rate(t *testing.T) {
	table := NewTable(DefaultCodes)

	tests := []struct {
		name string
		code string
		want int
	}{
		{"exact code", "DISCOUNT10", 10},
		{"lowercase", "discount20", 20},
		{"mixed case", "Welcome15", 15},
		{"whitespace", "  SAVE25 ", 25},
		{"browser code", "10%", 10},
		{"unknown", "FREEFOOD", 0},
		{"unknown lowercase", "freefood", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Rate(tt.code); got != tt.want {
				t.Errorf("Rate(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestNewTable_Clamps(t *testing.T) {
	table := NewTable(map[string]int{"neg": -5, "huge": 250, " ": 10})

	if got := table.Rate("NEG"); got != 0 {
		t.Errorf("negative rate clamped to %d, want 0", got)
	}
	if got := table.Rate("HUGE"); got != 100 {
		t.Errorf("large rate clamped to %d, want 100", got)
	}
	if len(table.Codes()) != 2 {
		t.Errorf("blank code should be dropped, got %v", table.Codes())
	}
}

func TestTable_LoadFromFiles(t *testing.T) {
	t.Run("later files override earlier ones", func(t *testing.T) {
		first := writeFile(t, "a.txt", "# seasonal\nSUMMER=30\nWINTER,5\n\n")
		second := writeFile(t, "b.txt", "summer=35\n")

		table := NewTable(DefaultCodes)
		if err := table.LoadFromFiles(context.Background(), []string{first, second}); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if got := table.Rate("summer"); got != 35 {
			t.Errorf("Rate(summer) = %d, want 35", got)
		}
		if got := table.Rate("WINTER"); got != 5 {
			t.Errorf("Rate(WINTER) = %d, want 5", got)
		}
		if got := table.Rate("DISCOUNT10"); got != 10 {
			t.Errorf("defaults lost after load, Rate(DISCOUNT10) = %d", got)
		}

		stats := table.Stats()
		if stats["total_sources"] != 2 {
			t.Errorf("expected 2 sources, got %v", stats["total_sources"])
		}
	})

	t.Run("gzipped file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "codes.gz")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		gz := gzip.NewWriter(f)
		_, _ = gz.Write([]byte("GZIP50=50\n"))
		_ = gz.Close()
		_ = f.Close()

		table := NewTable(nil)
		if err := table.LoadFromFiles(context.Background(), []string{path}); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got := table.Rate("gzip50"); got != 50 {
			t.Errorf("Rate(gzip50) = %d, want 50", got)
		}
	})

	t.Run("empty file paths", func(t *testing.T) {
		if err := NewTable(nil).LoadFromFiles(context.Background(), nil); err == nil {
			t.Error("expected error for empty file paths, got nil")
		}
	})

	t.Run("non-existent file", func(t *testing.T) {
		err := NewTable(nil).LoadFromFiles(context.Background(), []string{"/non/existent/file.txt"})
		if err == nil {
			t.Error("expected error for non-existent file, got nil")
		}
	})

	t.Run("malformed line leaves table unchanged", func(t *testing.T) {
		path := writeFile(t, "bad.txt", "GOOD=10\nBROKEN\n")

		table := NewTable(DefaultCodes)
		if err := table.LoadFromFiles(context.Background(), []string{path}); err == nil {
			t.Fatal("expected error for malformed line")
		}
		if got := table.Rate("GOOD"); got != 0 {
			t.Errorf("partial load applied, Rate(GOOD) = %d", got)
		}
	})
}

func TestTable_LoadFromURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/codes.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("REMOTE20=20\n"))
	}))
	defer srv.Close()

	table := NewTable(nil)
	if err := table.LoadFromURLs(context.Background(), []string{srv.URL + "/codes.txt"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got := table.Rate("remote20"); got != 20 {
		t.Errorf("Rate(remote20) = %d, want 20", got)
	}

	if err := table.LoadFromURLs(context.Background(), []string{srv.URL + "/missing"}); err == nil {
		t.Error("expected error for 404 source")
	}
}

func TestTable_ConcurrentAccess(t *testing.T) {
	table := NewTable(DefaultCodes)
	path := writeFile(t, "extra.txt", "EXTRA=40\n")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n == 50 {
				_ = table.LoadFromFiles(context.Background(), []string{path})
				return
			}
			if got := table.Rate("DISCOUNT20"); got != 20 {
				t.Errorf("Rate(DISCOUNT20) = %d, want 20", got)
			}
		}(i)
	}
	wg.Wait()
}

func TestTable_LoadBulkFromFiles(t *testing.T) {
	var b strings.Builder
	b.WriteString("# partner batch\n")
	for i := 0; i < 10000; i++ {
		fmt.Fprintf(&b, "bulk%06d\n", i)
	}
	path := writeFile(t, "bulk.txt", b.String())

	table := NewTable(DefaultCodes)
	if err := table.LoadBulkFromFiles(context.Background(), []string{path}, 12); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, code := range []string{"BULK000000", "bulk004321", " Bulk009999 "} {
		if got := table.Rate(code); got != 12 {
			t.Errorf("Rate(%q) = %d, want 12", code, got)
		}
	}
	for _, code := range []string{"BULK010000", "NOTACODE", "PARTNER"} {
		if _, ok := table.Lookup(code); ok {
			t.Errorf("Lookup(%q) found an unknown code", code)
		}
	}

	// Exact codes still win
	if got := table.Rate("DISCOUNT20"); got != 20 {
		t.Errorf("Rate(DISCOUNT20) = %d, want 20", got)
	}
	if n := len(table.Codes()); n != len(DefaultCodes) {
		t.Errorf("bulk codes leaked into Codes(): %d entries", n)
	}

	stats := table.Stats()
	if stats["bulk_lists"] != 1 || stats["bulk_codes"] != uint(10000) {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestTable_LoadBulk_LatestListWins(t *testing.T) {
	first := writeFile(t, "first.txt", "SHARED\nONLYFIRST\n")
	second := writeFile(t, "second.txt", "SHARED\n")

	table := NewTable(nil)
	if err := table.LoadBulkFromFiles(context.Background(), []string{first}, 5); err != nil {
		t.Fatal(err)
	}
	if err := table.LoadBulkFromFiles(context.Background(), []string{second}, 250); err != nil {
		t.Fatal(err)
	}

	if got := table.Rate("shared"); got != 100 {
		t.Errorf("Rate(shared) = %d, want clamped 100", got)
	}
	if got := table.Rate("onlyfirst"); got != 5 {
		t.Errorf("Rate(onlyfirst) = %d, want 5", got)
	}
}

func TestTable_LoadBulkFromURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("REMOTEBULK\n"))
	}))
	defer srv.Close()

	table := NewTable(nil)
	if err := table.LoadBulkFromURLs(context.Background(), []string{srv.URL + "/list.txt"}, 8); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got := table.Rate("remotebulk"); got != 8 {
		t.Errorf("Rate(remotebulk) = %d, want 8", got)
	}

	if err := table.LoadBulkFromURLs(context.Background(), nil, 8); err == nil {
		t.Error("expected error for empty URL list")
	}
}

func TestTable_ConcurrentLoadsKeepEveryCode(t *testing.T) {
	const loaders = 20

	paths := make([]string, loaders)
	for i := range paths {
		paths[i] = writeFile(t, fmt.Sprintf("load%d.txt", i), fmt.Sprintf("LOAD%d=%d\n", i, i+1))
	}

	table := NewTable(DefaultCodes)

	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := table.LoadFromFiles(context.Background(), []string{path}); err != nil {
				t.Errorf("load %s: %v", path, err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < loaders; i++ {
		code := fmt.Sprintf("LOAD%d", i)
		if got := table.Rate(code); got != i+1 {
			t.Errorf("Rate(%s) = %d, want %d", code, got, i+1)
		}
	}
	if got := table.Stats()["total_sources"]; got != loaders {
		t.Errorf("total_sources = %v, want %d", got, loaders)
	}
}
