package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/worklog/internal/constants"
)

func TestSetAndGetConnectionString(t *testing.T) {
	// Use mock keyring for testing
	gokeyring.MockInit()

	testConnStr := "postgres://worklog@localhost:5432/worklog?sslmode=disable"

	// Test Set
	err := SetConnectionString(testConnStr)
	if err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	// Test Get
	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}

	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	err := SetConnectionString("")
	if err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()

	// Ensure nothing is stored
	_ = DeleteConnectionString()

	_, err := GetConnectionString()
	if err != ErrNotFound {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://worklog@localhost:5432/worklog"

	// First, set a connection string
	err := SetConnectionString(testConnStr)
	if err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	// Delete it
	err = DeleteConnectionString()
	if err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}

	// Verify it's gone
	_, err = GetConnectionString()
	if err != ErrNotFound {
		t.Errorf("After DeleteConnectionString(), GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()

	// Ensure nothing is stored
	_ = DeleteConnectionString()

	err := DeleteConnectionString()
	if err != ErrNotFound {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	available := IsAvailable()
	// In mock mode, keyring should be available
	if !available {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}

func TestResolveConnectionString(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	got, err := ResolveConnectionString(getenv)
	if err != nil || got != "" {
		t.Fatalf("ResolveConnectionString() = %q, %v; want empty", got, err)
	}

	stored := "postgres://keyring@localhost/worklog?sslmode=disable"
	if err := SetConnectionString(stored); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if got, _ := ResolveConnectionString(getenv); got != stored {
		t.Errorf("ResolveConnectionString() = %q, want keyring value %q", got, stored)
	}

	env[constants.ConnectionEnvVar] = " postgres://env@localhost/worklog "
	if got, _ := ResolveConnectionString(getenv); got != "postgres://env@localhost/worklog" {
		t.Errorf("ResolveConnectionString() = %q, want environment value", got)
	}
}
