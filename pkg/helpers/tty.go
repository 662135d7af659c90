package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nuget/login/pkg/ci"
)

func IsTerminal() bool {
	_, isCI := ci.Provider()
	return !isCI && isTerminal(os.Stdout) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
