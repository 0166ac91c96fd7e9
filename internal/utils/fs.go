package utils

import (
	"os"
	"path/filepath"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirWritable reports whether dir exists (or can be created) and accepts a
// write probe.
func DirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".rankserve-probe")
	file, err := os.Create(probe)
	if err != nil {
		return false
	}
	file.Close()
	os.Remove(probe)
	return true
}

// GetExecutableDir returns the directory containing the running binary.
func GetExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// GetAbsolutePath resolves path to absolute, returning it unchanged on
// failure.
func GetAbsolutePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
