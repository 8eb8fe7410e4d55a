package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/worklog/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr)
	if err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable probes the OS keyring with a read. A not-found answer still
// means the keyring is reachable.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ResolveConnectionString returns the PostgreSQL connection string to use
// when none was given on the command line: the environment first, then the
// keyring. An empty string means neither source has one.
func ResolveConnectionString(getenv func(string) string) (string, error) {
	if v := strings.TrimSpace(getenv(constants.ConnectionEnvVar)); v != "" {
		return v, nil
	}
	connStr, err := GetConnectionString()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return connStr, err
}
