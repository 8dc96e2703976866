package codec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeAtomic writes a file through a temporary sibling and renames it into
// place, so readers never observe a partially written destination.
func writeAtomic(path string, overwrite bool, write func(w io.Writer) error) (err error) {
	if !overwrite {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("%w: %s", ErrDestinationExists, path)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(tmp.Name()))
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
