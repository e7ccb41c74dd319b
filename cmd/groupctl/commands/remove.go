package commands

import (
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [group-id]",
		Short: "Delete a group from the relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := dialGroups(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			color.Success.Printf("Group %q deleted.\n", args[0])
			return nil
		},
	}
}
