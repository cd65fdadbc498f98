// Package deploy republishes a mirrored snapshot directory through the
// Netlify CLI. It is a thin shell-out layer: no retries, no output parsing
// beyond exit codes.
package deploy

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const cliName = "netlify"

const configTemplate = `[build]
  publish = "."

[[redirects]]
  from = "/*"
  to = "/index.html"
  status = 200
`

// CLIAvailable reports whether the Netlify CLI is on PATH.
func CLIAvailable() error {
	if _, err := exec.LookPath(cliName); err != nil {
		return fmt.Errorf("netlify CLI not found on PATH: %w", err)
	}
	return nil
}

// LoggedIn checks for an authenticated Netlify session.
func LoggedIn(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, cliName, "status")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("netlify status failed (run `netlify login` first): %w: %s", err, out)
	}
	return nil
}

// WriteConfig drops a minimal netlify.toml into the snapshot directory so
// deep links into the mirror resolve. An existing config is left alone.
func WriteConfig(dir string) error {
	path := filepath.Join(dir, "netlify.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0o644)
}

// Deploy publishes dir as a Netlify site. prod promotes the deploy to the
// production URL instead of a draft.
func Deploy(ctx context.Context, dir string, prod bool) error {
	args := []string{"deploy", "--dir", dir}
	if prod {
		args = append(args, "--prod")
	}
	cmd := exec.CommandContext(ctx, cliName, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("netlify deploy failed: %w", err)
	}
	return nil
}
