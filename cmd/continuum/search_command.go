package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"continuum/internal/artifacts"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <keywords...>",
		Short: "Search indexed handoffs and plans",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			index, err := artifacts.Open(cmd.Context(), cfg.Paths.ArtifactIndexDB)
			if err != nil {
				return err
			}
			defer index.Close()

			results, err := index.Search(cmd.Context(), args, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				total, err := index.Count(cmd.Context())
				if err != nil {
					return err
				}
				if total == 0 {
					fmt.Fprintln(out, "Artifact index is empty. Handoffs and plans are indexed as they are written.")
				} else {
					fmt.Fprintf(out, "No artifacts match %q (%d indexed)\n", args, total)
				}
				return nil
			}

			rows := make([][]string, 0, len(results))
			for _, artifact := range results {
				rows = append(rows, []string{
					titleLabel(string(artifact.Kind)),
					artifact.Title,
					outcomeCell(artifact),
					artifact.ModifiedAt.Local().Format("2006-01-02 15:04"),
					filepath.ToSlash(artifact.Path),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Kind"},
				{header: "Title", maxWidth: 40},
				{header: "Outcome"},
				{header: "Modified"},
				{header: "Path"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", artifacts.DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func outcomeCell(artifact artifacts.Artifact) string {
	switch {
	case artifact.Kind == artifacts.KindPlan:
		return "-"
	case artifact.Outcome == "":
		return "UNKNOWN"
	case artifact.Completion > 0:
		return artifact.Outcome + " " + strconv.Itoa(artifact.Completion) + "%"
	default:
		return artifact.Outcome
	}
}
