package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmetrics/adsdata/filter"
	"github.com/mmetrics/adsdata/googleads"
)

var (
	queryCustomer        string
	queryResource        string
	queryFields          []string
	queryStart           string
	queryEnd             string
	queryZeroImpressions bool
	queryWheres          []string
	queryFilter          string
	queryGAQL            string
	queryOutput          string
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Fetch report data for a customer account",
	Long: `Fetch Google Ads report data for a customer account and write it as CSV.

A query is built from the resource, fields and date range, or passed
verbatim with --gaql. Fields use snake_case GAQL paths and become the
CSV column headers. Oversized result sets are fetched in campaign
chunks automatically.`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryCustomer, "customer", "c", "", "Google Ads customer id")
	queryCmd.Flags().StringVarP(&queryResource, "resource", "r", "", "resource to select from, e.g. campaign")
	queryCmd.Flags().StringSliceVarP(&queryFields, "fields", "f", nil, "fields to select (snake_case, comma-separated)")
	queryCmd.Flags().StringVar(&queryStart, "start", "", "start date (YYYY-MM-DD, default account date)")
	queryCmd.Flags().StringVar(&queryEnd, "end", "", "end date (YYYY-MM-DD, default account date)")
	queryCmd.Flags().BoolVar(&queryZeroImpressions, "zero-impressions", false, "include rows without impressions")
	queryCmd.Flags().StringArrayVarP(&queryWheres, "where", "w", nil, "extra where predicate, repeatable")
	queryCmd.Flags().StringVar(&queryFilter, "filter", "", "filter expression applied to fetched rows")
	queryCmd.Flags().StringVar(&queryGAQL, "gaql", "", "run a raw GAQL query instead of building one")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "write CSV to file instead of stdout")
	queryCmd.MarkFlagRequired("customer")
	queryCmd.MarkFlagRequired("fields")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	start, err := parseDate(queryStart)
	if err != nil {
		return err
	}
	end, err := parseDate(queryEnd)
	if err != nil {
		return err
	}

	svc, err := factory.Service(ctx, queryCustomer)
	if err != nil {
		return err
	}

	var table *googleads.Table
	if queryGAQL != "" {
		table, err = svc.ExecuteQuery(ctx, queryGAQL, queryFields)
	} else {
		if queryResource == "" {
			return fmt.Errorf("either --resource or --gaql is required")
		}
		table, err = svc.Data(ctx, queryResource, queryFields, start, end, queryZeroImpressions, queryWheres)
	}
	if err != nil {
		return err
	}

	if queryFilter != "" {
		f, err := filter.Compile(queryFilter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		table, err = f.Apply(table)
		if err != nil {
			return err
		}
	}

	logger.Info().
		Str("customer_id", queryCustomer).
		Int("rows", table.Len()).
		Msg("Fetched report data")

	return writeTable(table, queryOutput)
}

// campaignsCmd represents the campaigns command
var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List the search campaign ids active in a date range",
	RunE:  runCampaigns,
}

func init() {
	rootCmd.AddCommand(campaignsCmd)

	campaignsCmd.Flags().StringVarP(&queryCustomer, "customer", "c", "", "Google Ads customer id")
	campaignsCmd.Flags().StringVar(&queryStart, "start", "", "start date (YYYY-MM-DD, default account date)")
	campaignsCmd.Flags().StringVar(&queryEnd, "end", "", "end date (YYYY-MM-DD, default account date)")
	campaignsCmd.MarkFlagRequired("customer")
}

func runCampaigns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	start, err := parseDate(queryStart)
	if err != nil {
		return err
	}
	end, err := parseDate(queryEnd)
	if err != nil {
		return err
	}

	svc, err := factory.Service(ctx, queryCustomer)
	if err != nil {
		return err
	}

	ids, err := svc.CampaignIDs(ctx, start, end)
	if err != nil {
		return err
	}

	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

// parseDate parses an optional YYYY-MM-DD flag value
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// writeTable writes the table as CSV to a file or stdout
func writeTable(table *googleads.Table, path string) error {
	if path == "" {
		return table.WriteCSV(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := table.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
