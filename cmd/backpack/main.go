// Backpack: spatial inventory grid
//
// Drag rectangular items from a template palette onto a fixed grid, with
// collision checks, rotation and undo. Runs as a desktop window (gui) or in
// the terminal (tui).
//
// Build:
//   go build -o backpack ./cmd/backpack
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o backpack.exe ./cmd/backpack
//   GOOS=darwin  GOARCH=amd64 go build -o backpack-darwin ./cmd/backpack
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/backpack/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
