package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rpggio/l10n-tracker/internal/domain/catalog"
	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/export"
	"github.com/spf13/cobra"
)

// withApp runs fn against a freshly loaded app. Logs go to stderr so that
// stdout carries only command output.
func withApp(fn func(ctx context.Context, a *app) error) error {
	cfg, logger, cleanup, err := loadConfig(true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func overviewCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print completion of the tracked projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				rows := a.projects.Overview(ctx)
				if !all {
					rows = project.TopRows(rows, project.OverviewLimit)
				}
				return writeOverview(cmd.OutOrStdout(), rows)
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Print every project instead of the first ten")
	return cmd
}

func writeOverview(w io.Writer, rows []project.OverviewRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROJECT\tCREATED\tTYPES\tCOMPLETE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\n", row.ID, row.CreatedAt, joinTypes(row.Types), row.Percent)
	}
	return tw.Flush()
}

func joinTypes(types []catalog.Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

func exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the project document as JSON or a CSV summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			err := withApp(func(ctx context.Context, a *app) error {
				var err error
				switch format {
				case "json":
					data, err = export.JSON(a.projects.Snapshot(ctx))
				case "csv":
					data, err = export.CSV(a.projects.Overview(ctx))
				default:
					err = fmt.Errorf("unknown format %q, want json or csv", format)
				}
				return err
			})
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file; stdout when empty")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a project document into the tracked projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app) error {
				result, err := a.handler.ImportDocument(ctx, raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d new, replaced %d\n", len(result.Added), len(result.Replaced))
				return nil
			})
		},
	}
}
