package commands

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var recoveryPhrase string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Derive identity keys from a recovery phrase and store them securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if recoveryPhrase == "" {
				return fmt.Errorf("recovery phrase required (--recovery-phrase)")
			}
			_, fp, err := appCtx.Identity.Init(passphrase, recoveryPhrase)
			if err != nil {
				return err
			}
			color.Success.Println("Identity created.")
			fmt.Printf("Fingerprint: %s\n", fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&recoveryPhrase, "recovery-phrase", "", "recovery phrase the identity is derived from")
	return cmd
}
