package ticket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/ocs-chaos/ocs-chaos/internal/util/retry"
)

const (
	upstreamLifetime = "172800"
	patchedLifetime  = "999999999"
)

// ScriptGenerator downloads the upstream ticketgen.sh once, extends its ticket
// lifetime and runs it with the private key path as its only argument.
type ScriptGenerator struct {
	URL            string
	ScriptPath     string
	PrivateKeyFile string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Log            logr.Logger

	backoff *retry.Backoff
}

// Generate runs the helper and returns its trimmed output.
func (g *ScriptGenerator) Generate(ctx context.Context) (string, error) {
	if err := g.ensureScript(ctx); err != nil {
		return "", err
	}

	runCtx := ctx
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, g.ScriptPath, g.PrivateKeyFile) // #nosec G204 -- script path is inside the run directory
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ticket helper failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	ticket := strings.TrimSpace(stdout.String())
	if ticket == "" {
		return "", ErrEmptyTicket
	}
	return ticket, nil
}

// ensureScript downloads and patches the helper unless it is already present.
func (g *ScriptGenerator) ensureScript(ctx context.Context) error {
	if _, err := os.Stat(g.ScriptPath); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", g.ScriptPath, err)
	}

	var body []byte
	err := g.backoff.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = g.download(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to download ticket helper: %w", err)
	}

	script := strings.ReplaceAll(string(body), upstreamLifetime, patchedLifetime)
	if err := os.WriteFile(g.ScriptPath, []byte(script), 0o700); err != nil { // #nosec G306 -- the helper must be executable
		return fmt.Errorf("failed to write %s: %w", g.ScriptPath, err)
	}
	// WriteFile honours the umask, chmod makes the mode exact.
	if err := os.Chmod(g.ScriptPath, 0o700); err != nil { // #nosec G302
		return fmt.Errorf("failed to chmod %s: %w", g.ScriptPath, err)
	}
	g.Log.Info("downloaded ticket helper", "path", g.ScriptPath)
	return nil
}

func (g *ScriptGenerator) download(ctx context.Context) ([]byte, error) {
	client := g.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: g.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("GET %s: %s", g.URL, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, retry.Permanent(fmt.Errorf("GET %s: %s", g.URL, resp.Status))
	}
	return io.ReadAll(resp.Body)
}
