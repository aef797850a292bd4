package directory

// ListDirectoryRequest is the argument struct for list_directory.
type ListDirectoryRequest struct {
	Directory string `json:"directory"`
}

// Target returns the requested directory, defaulting to the root.
func (r *ListDirectoryRequest) Target() string {
	if r.Directory == "" {
		return "."
	}
	return r.Directory
}

func (r *ListDirectoryRequest) String() string {
	return "Listing " + r.Target()
}

// Entry is one immediate child of a listed directory.
type Entry struct {
	Name  string
	Size  int64
	IsDir bool
}
