package directory

import "os"

// fileSystem defines the filesystem operations needed for listing.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
}
