package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taskpilot/internal/clock"
)

var recommendationsCmd = &cobra.Command{
	Use:     "recommendations",
	Aliases: []string{"recs"},
	Short:   "List valid (unapplied, unexpired) recommendations",
	RunE:    runRecommendations,
}

func runRecommendations(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.ListValidRecommendations(cmd.Context(), clock.System().Now())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No valid recommendations.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tACTION\tCONFIDENCE\tEXPIRES\tREASONING")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			shortID(rec.ID), shortID(rec.TaskID), rec.Action, rec.Confidence,
			rec.ExpiresAt.Format("15:04:05"), rec.Reasoning)
	}
	return w.Flush()
}
