package facilityspread

import (
	"fmt"
	"os"
)

// NewFile creates a new file on the given path if it does not exist.
// Returns an error if the file exists.
func NewFile(path string, b []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

// AppendToFile creates a new file on the given path if it does not exist,
// or appends to the end of the existing file if the file exists.
func AppendToFile(path string, b []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}
