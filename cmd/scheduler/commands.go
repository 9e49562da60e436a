package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/app"
	"github.com/noah-isme/batch-timetable/internal/dto"
	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/pkg/config"
	"github.com/noah-isme/batch-timetable/pkg/logger"
)

type appOpener func(ctx context.Context) (*app.App, error)

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.New(ctx, cfg, logr)
}

func newRootCmd(out io.Writer, open appOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "scheduler",
		Short:         "Batch timetable scheduler",
		Long:          "Operator tool to run the weekly timetable scheduler against the configured database.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.AddCommand(newRunCmd(out, open), newTokenCmd(out, open))
	return root
}

func newRunCmd(out io.Writer, open appOpener) *cobra.Command {
	var (
		batchID string
		seed    int64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "schedule every batch, or one batch with --batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dto.RunRequest{Scope: dto.ScopeAll, Wait: true}
			if batchID != "" {
				req.Scope = dto.ScopeBatch
				req.BatchID = batchID
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck
			defer a.Logger.Sync() //nolint:errcheck

			summary, runErr := a.Scheduling.Run(cmd.Context(), req)
			if summary != nil {
				if err := printSummary(out, summary, asJSON); err != nil {
					return err
				}
			}
			if runErr != nil {
				a.Logger.Error("run failed", zap.Error(runErr))
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&batchID, "batch", "", "only reschedule this batch")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for a reproducible run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run summary as JSON")
	return cmd
}

func newTokenCmd(out io.Writer, open appOpener) *cobra.Command {
	var (
		subject string
		role    string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue an access token for the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userRole := models.UserRole(role)
			if userRole != models.RoleAdmin && userRole != models.RoleSuperAdmin {
				return fmt.Errorf("role must be %s or %s", models.RoleAdmin, models.RoleSuperAdmin)
			}
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			token, expiresAt, err := a.Auth.IssueToken(subject, userRole)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n# expires %s\n", token, expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "token role")
	return cmd
}

func printSummary(out io.Writer, summary *models.RunSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	scope := summary.Scope
	if summary.BatchID != nil {
		scope += " " + *summary.BatchID
	}
	fmt.Fprintf(out, "run %s (%s) %s in %dms, seed %d\n", summary.RunID, scope, summary.State, summary.DurationMs, summary.Seed)
	if summary.Error != "" {
		fmt.Fprintf(out, "error: %s\n", summary.Error)
		return nil
	}
	fmt.Fprintf(out, "requested %d  placed %d  unplaceable %d  cleared %d\n",
		summary.RequestedCount, summary.PlacedCount, summary.UnplaceableCount, summary.ClearedCount)

	if len(summary.Unplaceable) > 0 {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BATCH\tSUBJECT\tREASON")
		for _, item := range summary.Unplaceable {
			name := item.SubjectName
			if name == "" {
				name = item.SubjectID
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", item.BatchID, name, item.Reason)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	for _, adv := range summary.Advisories {
		fmt.Fprintf(out, "advisory: %s limit %d actual %d %s%s%s\n", adv.Type, adv.Limit, adv.Actual, adv.TeacherID, adv.BatchID, adv.DayOfWeek)
	}
	return nil
}
