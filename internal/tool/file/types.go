package file

import (
	"fmt"
	"unicode/utf8"
)

// -- Read File --

// ReadFileRequest is the argument struct for read_file.
type ReadFileRequest struct {
	FilePath string `json:"file_path"`
	MaxChars *int   `json:"max_chars,omitempty"`
}

func (r *ReadFileRequest) Validate() error {
	if r.FilePath == "" {
		return ErrPathRequired
	}
	if r.MaxChars != nil && *r.MaxChars < 1 {
		return ErrInvalidMaxChars
	}
	return nil
}

func (r *ReadFileRequest) String() string {
	return "Reading " + r.FilePath
}

// -- Write File --

// WriteFileRequest is the argument struct for write_file.
// Content is a pointer so that a missing argument can be told apart from an
// empty file.
type WriteFileRequest struct {
	FilePath string  `json:"file_path"`
	Content  *string `json:"content"`
}

func (r *WriteFileRequest) Validate() error {
	if r.FilePath == "" {
		return ErrPathRequired
	}
	if r.Content == nil {
		return ErrContentRequired
	}
	return nil
}

func (r *WriteFileRequest) String() string {
	return fmt.Sprintf("Writing %s (%d characters)", r.FilePath, utf8.RuneCountInString(r.text()))
}

func (r *WriteFileRequest) text() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}
