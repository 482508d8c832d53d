package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/estateportal/internal/logging"
)

var ErrUsage = errors.New("usage error")

const usage = `Usage: portalctl <command> [flags]

Commands:
  hash-password [-cost n]                       print a bcrypt hash for PORTAL_ADMIN_PASSWORD
  import [-data dir] [-owner name] <file>       import listings from an .xlsx or .csv file
`

type App struct {
	out    io.Writer
	logger logging.Logger
}

func NewApp(out io.Writer, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &App{out: out, logger: logger}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "hash-password":
		return a.hashPassword(rest)
	case "import":
		return a.importFile(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n\n%s", cmd, usage)
		return ErrUsage
	}
}

// Main runs the tool with the process arguments and returns the exit code.
func Main(ctx context.Context) int {
	logger := logging.New(os.Stderr, "info", "text")
	if err := NewApp(os.Stdout, logger).Run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, ErrUsage) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return 1
	}
	return 0
}
