package generator

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows a generated document to the user.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	goos         = runtime.GOOS
)

// SystemOpener hands the document to the platform's default application.
type SystemOpener struct{}

// Open starts the opener and returns without waiting for it.
func (SystemOpener) Open(_ context.Context, path string) error {
	name, args := openCommand(goos, path)
	bin, err := lookPathFunc(name)
	if err != nil {
		return fmt.Errorf("no opener for %s: %w", goos, err)
	}
	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openCommand(osName, path string) (string, []string) {
	switch osName {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}
