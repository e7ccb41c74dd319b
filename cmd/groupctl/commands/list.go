package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups known to the relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := dialGroups(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer sess.Close()

			groups, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				fmt.Println("No groups found.")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Visibility", "Created"})
			for _, g := range groups {
				visibility := "public"
				if !g.Public {
					visibility = "private"
				}
				created := ""
				if g.CreatedAt > 0 {
					created = time.Unix(g.CreatedAt, 0).UTC().Format("2006-01-02")
				}
				table.Append([]string{g.ID, g.Name, visibility, created})
			}
			table.Render()
			return nil
		},
	}
}
