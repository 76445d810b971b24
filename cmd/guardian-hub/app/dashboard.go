package app

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/guardian-io/guardian/cmd/guardian-hub/app/options"
	"github.com/guardian-io/guardian/internal/hub/core/service"
	"github.com/guardian-io/guardian/internal/hub/store"
	"github.com/guardian-io/guardian/pkg/log"
)

// dashboardRecentN bounds the recent-interactions table.
const dashboardRecentN = 10

// newDashboardCommand renders the security dashboard from the on-disk
// tables without starting the servers.
func newDashboardCommand(opts *options.HubOptions, configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the agent interaction audit dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadOptions(cmd, *configFile, opts); err != nil {
				return err
			}

			st, err := store.Open(opts.DataOptions.Dir, log.NewNopLogger())
			if err != nil {
				return fmt.Errorf("open data store: %w", err)
			}

			svc := service.New(service.Deps{
				Interactions: st.Interactions(),
				SecurityLog:  st.SecurityLog(),
			}, log.NewNopLogger())

			ctx := cmd.Context()

			d, err := svc.AuditDashboard(ctx, dashboardRecentN)
			if err != nil {
				return fmt.Errorf("build audit dashboard: %w", err)
			}
			risks, err := svc.BehavioralRisks(ctx)
			if err != nil {
				return fmt.Errorf("rank behavioral risks: %w", err)
			}

			out := cmd.OutOrStdout()

			summary := uitable.New()
			summary.AddRow("TOTAL", "BLOCKED", "SUSPICIOUS", "AVG SCORE", "BUSIEST AGENT")
			summary.AddRow(d.Total, d.Blocked, d.Suspicious,
				fmt.Sprintf("%.3f", d.MeanScore), d.Busiest)
			fmt.Fprintln(out, "Agent interactions")
			fmt.Fprintln(out, summary)

			if len(d.Recent) > 0 {
				recent := uitable.New()
				recent.MaxColWidth = 40
				recent.AddRow("TIME", "SOURCE", "TARGET", "ACTION", "SCORE", "BLOCKED")
				for _, in := range d.Recent {
					recent.AddRow(in.Timestamp.Format("2006-01-02 15:04:05"),
						in.Source, in.Target, in.Action,
						fmt.Sprintf("%.3f", in.AnomalyScore), in.Blocked)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Recent")
				fmt.Fprintln(out, recent)
			}

			if len(risks) > 0 {
				ranked := uitable.New()
				ranked.AddRow("VEHICLE", "RISK SCORE")
				for _, r := range risks {
					ranked.AddRow(r.VehicleName, fmt.Sprintf("%.2f", r.Score))
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Behavioral risk ranking")
				fmt.Fprintln(out, ranked)
			}

			return nil
		},
	}
}
