package file

import "os"

// fileReader defines the minimal filesystem operations needed for reading files.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadRunes(path string, n int) (string, error)
}

// fileWriter defines the minimal filesystem operations needed for writing files.
type fileWriter interface {
	Stat(path string) (os.FileInfo, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	EnsureDirs(path string) error
}
