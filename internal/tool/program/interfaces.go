package program

import (
	"context"
	"os"

	"github.com/Cyclone1070/boxagent/internal/sandbox"
	"github.com/Cyclone1070/boxagent/internal/tool/service/executor"
)

// backend runs a confined program under isolation.
type backend interface {
	Name() string
	Interpreter() string
	Run(ctx context.Context, req sandbox.Request) (*executor.Result, error)
}

// fileStater checks the program exists before it is handed to the backend.
type fileStater interface {
	Stat(path string) (os.FileInfo, error)
}
