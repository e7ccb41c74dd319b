package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"groupctl/internal/app"
	"groupctl/internal/crypto"
	"groupctl/internal/domain"
	"groupctl/internal/relay"
	"groupctl/internal/services/group"
)

var (
	home       string
	passphrase string
	relayURL   string
	opTimeout  time.Duration
	logLevel   string

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "groupctl",
		Short:         "Administer chat groups on a relay",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}
			if opTimeout > 0 {
				cfg.OperationTimeout = opTimeout
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			appCtx, err = app.NewWire(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.groupctl)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the identity")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay websocket URL (e.g. wss://relay.example.com)")
	root.PersistentFlags().DurationVar(&opTimeout, "timeout", 0, "per-operation timeout")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace..error)")

	root.AddCommand(initCmd(), fingerprintCmd(), createCmd(), listCmd(), inviteCmd(), removeCmd())
	return root.Execute()
}

// dialGroups opens a relay session and builds the group service over it.
// withIdentity loads and unlocks the stored identity so the session can
// authenticate; without it the session is read-only.
func dialGroups(ctx context.Context, withIdentity bool) (*group.Service, *relay.Session, error) {
	var signer domain.Signer
	if withIdentity {
		if passphrase == "" {
			return nil, nil, fmt.Errorf("passphrase required (-p)")
		}
		id, err := appCtx.Identity.Load(passphrase)
		if err != nil {
			return nil, nil, err
		}
		sg, err := crypto.NewSigner(id)
		if err != nil {
			return nil, nil, err
		}
		signer = sg
	}
	sess, err := appCtx.DialSession(ctx, signer)
	if err != nil {
		return nil, nil, err
	}
	return group.New(sess, signer), sess, nil
}
