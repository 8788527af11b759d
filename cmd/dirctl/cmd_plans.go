package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"directory-service/internal/domain/plan"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Inspect subscription plan catalogs",
	}

	var file, output string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print the plan catalog in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(file)
			if err != nil {
				return err
			}
			return printPlans(cmd.OutOrStdout(), catalog.ListPlans(), output)
		},
	}
	list.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to read instead of the built-in one")
	list.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	validate := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a YAML catalog without loading it into a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := plan.LoadFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, validate)
	return cmd
}

func loadCatalog(file string) (*plan.Catalog, error) {
	if file == "" {
		return plan.Default(), nil
	}
	return plan.LoadFile(file)
}

func printPlans(w io.Writer, plans []plan.Plan, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plans)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(map[string][]plan.Plan{"plans": plans})
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tNAME\tPRICE\tPRODUCTS\tGALLERY\tWHATSAPP\tCOUPONS\tVERIFIED\tFEATURED")
		for _, p := range plans {
			f := p.Features
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%t\t%t\t%t\t%t\n",
				p.Key, p.Name, p.Price, limitString(f.ProductsLimit), f.GalleryLimit,
				f.WhatsApp, f.Coupons, f.Verified, f.Featured)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func limitString(n int) string {
	if n == plan.Unlimited {
		return "unlimited"
	}
	return strconv.Itoa(n)
}
