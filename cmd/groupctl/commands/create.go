package commands

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	var (
		about   string
		private bool
	)
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a chat group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := dialGroups(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer sess.Close()

			res, err := svc.Create(cmd.Context(), args[0], about, !private)
			if err != nil {
				return err
			}
			color.Success.Printf("Group %q created.\n", res.GroupID)
			if res.Invite != nil {
				fmt.Printf("Invite code for %s: %s\n", res.Invite.GroupID, res.Invite.Code)
			}
			if res.InviteErr != nil {
				color.Warn.Printf("group created, but minting the invite failed: %v\n", res.InviteErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&about, "about", "", "group description")
	cmd.Flags().BoolVar(&private, "private", false, "create a private group and mint an invite")
	return cmd
}
