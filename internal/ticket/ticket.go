package ticket

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
)

// Lifetime is the ticket validity. The upstream helper defaults to 172800
// seconds, which is too short for long chaos runs.
const Lifetime = 999999999 * time.Second

// ScriptFileName is the helper's file name inside the run directory.
const ScriptFileName = "ticketgen.sh"

// ErrEmptyTicket is returned when the helper prints nothing.
var ErrEmptyTicket = errors.New("onboarding ticket is empty")

// Generator produces an onboarding ticket.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// New returns the generator selected by cfg.TicketMode.
func New(cfg config.OnboardingConfig, dataDir string, callTimeout time.Duration, log logr.Logger) (Generator, error) {
	switch cfg.TicketMode {
	case config.TicketModeScript, "":
		return &ScriptGenerator{
			URL:            cfg.TicketgenURL,
			ScriptPath:     filepath.Join(dataDir, ScriptFileName),
			PrivateKeyFile: cfg.PrivateKeyFile,
			Timeout:        callTimeout,
			Log:            log.WithName("ticketgen"),
		}, nil
	case config.TicketModeNative:
		return NewNativeSigner(cfg.PrivateKeyFile)
	default:
		return nil, fmt.Errorf("unknown ticket mode %q", cfg.TicketMode)
	}
}
