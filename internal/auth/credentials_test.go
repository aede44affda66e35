package auth

import (
	"testing"

	"mosdac/internal/store"
)

func newTestCreds(t *testing.T) *Credentials {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewCredentials(st)
}

func TestTokenLifecycle(t *testing.T) {
	c := newTestCreds(t)

	if c.HasToken() {
		t.Fatal("token present before set")
	}
	if err := c.SetToken("  tok-abc  "); err != nil {
		t.Fatal(err)
	}
	tok, ok := c.Token()
	if !ok || tok != "tok-abc" {
		t.Fatalf("token=%q ok=%v", tok, ok)
	}

	if err := c.ClearToken(); err != nil {
		t.Fatal(err)
	}
	if c.HasToken() {
		t.Fatal("token survived clear")
	}
	// clearing again is not an error
	if err := c.ClearToken(); err != nil {
		t.Fatal(err)
	}
}

func TestEmptyTokenRejected(t *testing.T) {
	c := newTestCreds(t)
	if err := c.SetToken("   "); err == nil {
		t.Fatal("blank token accepted")
	}
}
