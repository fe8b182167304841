package persistence

import (
	"encoding/gob"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// SaveGob encodes object with gob and writes it to filePath.
// The data lands in a temporary file first and is renamed into place, so a crash
// mid-write never leaves a truncated snapshot behind.
func SaveGob(filePath string, object any) error {
	return writeAtomic(filePath, func(w io.Writer) error {
		if err := gob.NewEncoder(w).Encode(object); err != nil {
			return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
		}
		return nil
	})
}

// LoadGob decodes a gob-encoded file from filePath into objectPointer.
// If the file does not exist it returns os.ErrNotExist so callers can start fresh.
func LoadGob(filePath string, objectPointer any) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer closeLogged(file, filePath)

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

func writeAtomic(filePath string, encode func(io.Writer) error) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	tmpName := tmp.Name()

	if err := encode(tmp); err != nil {
		closeLogged(tmp, tmpName)
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", filePath, err)
	}
	return nil
}

func closeLogged(c io.Closer, path string) {
	if err := c.Close(); err != nil {
		slog.Warn("Failed to close file", "path", path, "error", err)
	}
}
