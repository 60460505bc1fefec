package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/render"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Print advocates matching a case-insensitive substring",
	Long: `Matches the query against first and last name, city, degree, each
specialty, years of experience, and the phone number digits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	session.Search(strings.Join(args, " "))
	out := cmd.OutOrStdout()
	if err := render.Table(out, session.Rows()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%d of %d advocates match %q\n", session.Matched(), session.Total(), session.Query())
	return err
}
