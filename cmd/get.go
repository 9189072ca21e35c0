package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/relgen/bugzilla-query/bugzilla"
	"github.com/relgen/bugzilla-query/filter"
)

var (
	// get command flags
	fields     []string
	limit      int
	unlimited  bool
	filterExpr string
	output     string
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get BUG_ID...",
	Short: "Fetch bugs by their IDs",
	Long: `Fetch one or more bugs by ID from the configured Bugzilla instance.

The server may return fewer bugs than requested when some IDs do not exist
or are not visible to the authenticated account. An optional filter
expression narrows the results after fetching, for example:

  bugzilla-query get 1234567 2345678 --filter 'Bug.Status == "NEW"'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringSliceVar(&fields, "fields", nil, "bug fields to request (replaces the config list)")
	getCmd.Flags().IntVar(&limit, "limit", 0, "cap the number of returned bugs")
	getCmd.Flags().BoolVar(&unlimited, "unlimited", false, "disable the server's result cap")
	getCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to fetched bugs")
	getCmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
}

func runGet(cmd *cobra.Command, args []string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unknown output format %q", output)
	}

	bugs, err := client.GetBugs(context.Background(), args)
	if err != nil {
		return err
	}

	if len(bugs) < len(args) {
		logger.Warn().
			Int("requested", len(args)).
			Int("returned", len(bugs)).
			Msg("Some requested bugs were not returned")
	}

	if filterExpr != "" {
		f, err := filter.Compile(filterExpr)
		if err != nil {
			return err
		}
		bugs, err = f.Apply(bugs)
		if err != nil {
			return err
		}
	}

	if output == "json" {
		return printJSON(bugs)
	}
	return printTable(bugs)
}

func printJSON(bugs []bugzilla.Bug) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(bugs)
}

func printTable(bugs []bugzilla.Bug) error {
	if len(bugs) == 0 {
		fmt.Println("No bugs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSEVERITY\tPRODUCT\tCOMPONENT\tASSIGNEE\tSUMMARY")
	for _, bug := range bugs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			bug.ID,
			bug.Status,
			bug.Severity,
			bug.Product,
			strings.Join(bug.Component, ","),
			bug.AssignedTo,
			bug.Summary,
		)
	}
	return w.Flush()
}
