package session

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultDirName defines the folder under the user's home directory.
	DefaultDirName = ".angkat"

	sessionDirName = "angkat"
	tempDirName    = "angkat-sessions"
)

// ResolveBasePath determines where angkat keeps its config and logs,
// defaulting to ~/.angkat. The location can be overridden by exporting ANGKAT_HOME.
func ResolveBasePath() (string, error) {
	if override, ok := lookupNonEmpty("ANGKAT_HOME"); ok {
		return normalizePath(override)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// ResolveSessionDir picks a directory whose contents do not outlive the login
// session: ANGKAT_SESSION_DIR, then $XDG_RUNTIME_DIR/angkat, then the system
// temp dir.
func ResolveSessionDir() (string, error) {
	if override, ok := lookupNonEmpty("ANGKAT_SESSION_DIR"); ok {
		return normalizePath(override)
	}
	if runtime, ok := lookupNonEmpty("XDG_RUNTIME_DIR"); ok {
		return filepath.Join(runtime, sessionDirName), nil
	}
	return filepath.Join(os.TempDir(), tempDirName), nil
}

// Key identifies the current terminal session. ANGKAT_SESSION wins; otherwise
// the parent process (the invoking shell) is used so every command started
// from one terminal shares the same key.
func Key() string {
	if override, ok := lookupNonEmpty("ANGKAT_SESSION"); ok {
		return sanitizeKey(override)
	}
	return "ppid-" + strconv.Itoa(os.Getppid())
}

func lookupNonEmpty(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func normalizePath(input string) (string, error) {
	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return input, nil
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
