package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "state"))
	if err != nil {
		t.Fatal(err)
	}
	sq, err := NewSQLiteStore(filepath.Join(dir, "kv.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = fs.Close()
		_ = sq.Close()
	})
	return map[string]Store{"file": fs, "sqlite": sq}
}

func TestRoundtrip(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Set("token", "abc123"); err != nil {
				t.Fatal(err)
			}
			got, err := st.Get("token")
			if err != nil {
				t.Fatal(err)
			}
			if got != "abc123" {
				t.Fatalf("got %q", got)
			}

			// 覆盖写入 / Overwrite
			if err := st.Set("token", "def456"); err != nil {
				t.Fatal(err)
			}
			got, err = st.Get("token")
			if err != nil {
				t.Fatal(err)
			}
			if got != "def456" {
				t.Fatalf("after overwrite got %q", got)
			}
		})
	}
}

func TestMissingKey(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get("nope")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("err=%v, want ErrNotFound", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Set("k", "v"); err != nil {
				t.Fatal(err)
			}
			if err := st.Delete("k"); err != nil {
				t.Fatal(err)
			}
			if _, err := st.Get("k"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err=%v, want ErrNotFound", err)
			}
			// 删除不存在的键不报错 / Deleting a missing key is not an error
			if err := st.Delete("k"); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "a/b", `a\b`, "../escape"} {
		if err := fs.Set(key, "v"); err == nil {
			t.Fatalf("key %q accepted", key)
		}
	}
}
