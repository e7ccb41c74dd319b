package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"groupctl/internal/domain"
	"groupctl/internal/relay"
	identitysvc "groupctl/internal/services/identity"
	"groupctl/internal/store"
)

// Wire bundles the store, services, and configuration for the CLI.
type Wire struct {
	Config   Config
	Identity domain.IdentityService
}

// NewWire constructs the dependency graph from cfg. An empty home directory
// defaults to ~/.groupctl and is created if missing.
func NewWire(cfg Config) (*Wire, error) {
	if cfg.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.Home = filepath.Join(dir, ".groupctl")
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	fs := store.NewFileStore(cfg.Home)
	return &Wire{
		Config:   cfg,
		Identity: identitysvc.New(fs),
	}, nil
}

// DialSession opens one relay session with the configured timeouts. A nil
// signer yields a read-only session.
func (w *Wire) DialSession(ctx context.Context, signer domain.Signer) (*relay.Session, error) {
	if w.Config.RelayURL == "" {
		return nil, fmt.Errorf("relay URL required (--relay or GROUPCTL_RELAY_URL)")
	}
	dialCtx, cancel := context.WithTimeout(ctx, w.Config.DialTimeout)
	defer cancel()
	return relay.Dial(dialCtx, w.Config.RelayURL,
		relay.WithSigner(signer),
		relay.WithOperationTimeout(w.Config.OperationTimeout),
		relay.WithAuthTimeout(w.Config.AuthTimeout),
	)
}
