package validator

import (
	"testing"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

func TestIdentityRejectsEmpty(t *testing.T) {
	if err := Identity(""); err == nil {
		t.Fatal("expected error for empty identity")
	}
	if err := Identity("  "); err == nil {
		t.Fatal("expected error for whitespace-only identity")
	}
	if err := Identity("user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStreamIDRejectsNonPositive(t *testing.T) {
	for _, id := range []int{0, -1, -100} {
		if err := StreamID(id); err == nil {
			t.Fatalf("expected error for stream id %d", id)
		}
	}
	if err := StreamID(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCategoryIDRejectsEmpty(t *testing.T) {
	if err := CategoryID(""); err == nil {
		t.Fatal("expected error for empty category id")
	}
	if err := CategoryID("news"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSyncIntervalHoursEnforcesMinimum(t *testing.T) {
	if err := SyncIntervalHours(5); err == nil {
		t.Fatal("expected error for interval below 6 hours")
	}
	if err := SyncIntervalHours(6); err != nil {
		t.Fatalf("unexpected error at the boundary: %v", err)
	}
	if err := SyncIntervalHours(24); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBaseURLValidation(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty", "", true},
		{"missing scheme", "example.com", true},
		{"ftp scheme", "ftp://example.com", true},
		{"no host", "http://", true},
		{"valid http", "http://example.com:8080", false},
		{"valid https", "https://panel.example.com/", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := BaseURL(tc.raw)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.raw, err)
			}
		})
	}
}

func TestCredentialsRequiresUsernameAndPassword(t *testing.T) {
	if err := Credentials("http://example.com", "", "pw"); err == nil {
		t.Fatal("expected error for empty username")
	}
	if err := Credentials("http://example.com", "user", ""); err == nil {
		t.Fatal("expected error for empty password")
	}
	if err := Credentials("http://example.com", "user", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEscapeLikePatternTreatsWildcardsLiterally(t *testing.T) {
	got := EscapeLikePattern("100%_off")
	want := store.SanitizeLikePattern("100%_off")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got == "100%_off" {
		t.Fatal("expected wildcard characters to be escaped")
	}
}

func TestValidationErrorsAreStoreValidationErrors(t *testing.T) {
	err := Identity("")
	var ve *store.ValidationError
	if !isValidationError(err, &ve) {
		t.Fatalf("expected *store.ValidationError, got %T", err)
	}
}

func isValidationError(err error, target **store.ValidationError) bool {
	ve, ok := err.(*store.ValidationError)
	if ok {
		*target = ve
	}
	return ok
}
