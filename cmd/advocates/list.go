package main

import (
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/render"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every advocate",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()
	return render.Table(cmd.OutOrStdout(), session.Rows())
}
