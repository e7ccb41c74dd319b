package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func inviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite [group-id]",
		Short: "Mint an invite code for a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := dialGroups(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer sess.Close()

			ref, err := svc.Invite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Invite code for %s: %s\n", ref.GroupID, ref.Code)
			return nil
		},
	}
}
