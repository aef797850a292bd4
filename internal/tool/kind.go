package tool

// Kind enumerates the closed set of tools the agent can call.
type Kind int

const (
	KindListDirectory Kind = iota
	KindReadFile
	KindWriteFile
	KindRunProgram

	kindCount
)

var kindNames = [kindCount]string{
	KindListDirectory: "list_directory",
	KindReadFile:      "read_file",
	KindWriteFile:     "write_file",
	KindRunProgram:    "run_program",
}

// String returns the name the model uses to call the tool.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds returns every declared kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// KindByName maps a model-supplied tool name to its kind.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}
