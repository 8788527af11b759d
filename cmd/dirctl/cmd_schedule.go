package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"directory-service/internal/config"
	"directory-service/internal/domain/schedule"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// hoursDoc is the on-disk shape read by "schedule check". JSON documents
// parse too since YAML is a superset.
type hoursDoc struct {
	Schedule  schedule.WeeklySchedule `yaml:"schedule"`
	OpenTime  string                  `yaml:"open_time"`
	CloseTime string                  `yaml:"close_time"`
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Work with weekly opening hours",
	}

	var at, tz string
	check := &cobra.Command{
		Use:   "check <file>",
		Short: "Report malformed entries and the open status at a given instant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var doc hoursDoc
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			cfg := config.Load()
			if tz != "" {
				cfg.VenueTimezone = tz
			}
			now := time.Now()
			if at != "" {
				if now, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
			}
			now = now.In(cfg.Location())

			out := cmd.OutOrStdout()
			st := schedule.Status(doc.Schedule, doc.OpenTime, doc.CloseTime, now)
			fmt.Fprintf(out, "at:     %s\n", now.Format("Mon 2006-01-02 15:04 MST"))
			fmt.Fprintf(out, "open:   %t\n", st.Open)
			fmt.Fprintf(out, "today:  %s %s\n", st.Today, formatRanges(st))

			issues := schedule.Validate(doc.Schedule, doc.OpenTime, doc.CloseTime)
			for _, e := range issues {
				fmt.Fprintf(out, "issue:  %s\n", e.Error())
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d malformed schedule entries", len(issues))
			}
			return nil
		},
	}
	check.Flags().StringVar(&at, "at", "", "RFC3339 instant to evaluate (default: now)")
	check.Flags().StringVar(&tz, "tz", "", "IANA time zone (default: VENUE_TIMEZONE)")

	cmd.AddCommand(check)
	return cmd
}

func formatRanges(st schedule.OpenStatus) string {
	if st.Closed {
		return "closed"
	}
	parts := make([]string, 0, len(st.Ranges))
	for _, r := range st.Ranges {
		parts = append(parts, r.Start+"-"+r.End)
	}
	return strings.Join(parts, ", ")
}
