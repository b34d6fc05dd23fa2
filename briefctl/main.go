package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DeafMist/flight-risk-radar/backend/internal/airports"
	"github.com/DeafMist/flight-risk-radar/backend/internal/app"
	"github.com/DeafMist/flight-risk-radar/backend/internal/brief"
	"github.com/DeafMist/flight-risk-radar/backend/internal/config"
	"github.com/DeafMist/flight-risk-radar/backend/internal/elasticsearch"
	"github.com/DeafMist/flight-risk-radar/backend/internal/logger"
)

// builder wires the brief service; profile overrides RISK_PROFILE when set.
type builder func(ctx context.Context, profile string) (*app.App, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCmd(buildFromEnv).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func buildFromEnv(ctx context.Context, profile string) (*app.App, error) {
	log := logger.NewWithWriter("briefctl", os.Stderr)
	cfg, err := config.LoadProviders(ctx)
	if err != nil {
		return nil, err
	}
	if profile != "" {
		cfg.RiskProfile = profile
	}

	var index app.HeadlineIndex
	if cfg.HeadlineSource == "elasticsearch" {
		common := config.LoadCommon()
		es, err := elasticsearch.New(common.ElasticsearchAddr, common.ElasticsearchIndex, log)
		if err != nil {
			return nil, err
		}
		index = es
	}
	return app.Build(ctx, cfg, index, log)
}

func newRootCmd(build builder) *cobra.Command {
	root := &cobra.Command{
		Use:           "briefctl",
		Short:         "Compute flight risk briefs from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(briefCmd(build))
	root.AddCommand(airportsCmd())
	return root
}

func briefCmd(build builder) *cobra.Command {
	var (
		req     brief.Request
		profile string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "brief FLIGHT DATE",
		Short: "Compute the risk brief for a flight on a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.FlightIata, req.Date = args[0], args[1]
			if _, err := brief.Normalize(req); err != nil {
				return err
			}

			wired, err := build(cmd.Context(), profile)
			if err != nil {
				return fmt.Errorf("wire brief service: %w", err)
			}
			result, err := wired.Service.ComputeRiskBrief(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result, !compact)
		},
	}

	cmd.Flags().StringVar(&req.DepIata, "dep", "", "departure airport IATA code (overrides flight status)")
	cmd.Flags().StringVar(&req.ArrIata, "arr", "", "arrival airport IATA code (overrides flight status)")
	cmd.Flags().StringVar(&req.PassengerType, "passenger", "", "standard, precheck, family or accessibility")
	cmd.Flags().IntVar(&req.TargetLeadMinutes, "lead", 0, "minutes between airport arrival and departure")
	cmd.Flags().StringVar(&profile, "profile", "", "risk profile: operational or news_weighted")
	cmd.Flags().BoolVar(&compact, "compact", false, "print single-line JSON")
	return cmd
}

func airportsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "airports [IATA]",
		Short: "List the airport directory or show one airport",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := airports.Default()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				a, ok := dir.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown airport %q", args[0])
				}
				return writeJSON(out, a, true)
			}

			list := dir.All()
			if asJSON {
				return writeJSON(out, list, true)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "IATA\tNAME\tCITY")
			for _, a := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Iata, a.Name, a.City)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the directory as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
