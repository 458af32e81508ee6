package service

import (
	"errors"
	"testing"
)

func TestUserServiceAuthenticate(t *testing.T) {
	f := newServiceFixture(t)
	userID := f.createUser(t, "alice")
	svc := NewUserService(f.db)

	user, err := svc.Authenticate(t.Context(), " alice ", "secret")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("expected user %d, got %d", userID, user.ID)
	}

	for _, tc := range []struct{ username, password string }{
		{"alice", "wrong"},
		{"nobody", "secret"},
		{"", "secret"},
		{"alice", ""},
	} {
		if _, err := svc.Authenticate(t.Context(), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Authenticate(%q, %q): expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}
