package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/tilecut/internal/classtable"
	"github.com/sells-group/tilecut/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats <source>",
	Short: "Print per-class pixel statistics",
	Long:  "Tallies pixels by class value over the whole raster, optionally labeling classes from a CSV lookup (code,label,category).",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("classes", "", "CSV class table for labels")
	statsCmd.Flags().Int("band", 1, "source band to read")
	statsCmd.Flags().Int("nodata", 0, "value to exclude from the tally")
	statsCmd.Flags().Bool("no-nodata", false, "count every pixel, including the nodata value")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	band, _ := cmd.Flags().GetInt("band")
	nodata, _ := cmd.Flags().GetInt("nodata")
	noNodata, _ := cmd.Flags().GetBool("no-nodata")
	classesPath, _ := cmd.Flags().GetString("classes")

	var table *classtable.Table
	if classesPath != "" {
		var err error
		table, err = classtable.LoadFile(classesPath)
		if err != nil {
			return err
		}
	}

	src, _, err := openSource(args[0], band)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	arr, err := src.ReadWindow(src.Extent().FullWindow())
	if err != nil {
		return err
	}

	summary := stats.Summarize(arr, stats.Options{
		NoData:    int32(nodata),
		HasNoData: !noNodata,
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tLABEL\tCOUNT\tSHARE")
	for _, c := range summary.Classes {
		label := fmt.Sprintf("class %d", c.Code)
		if table != nil {
			label = table.Label(c.Code)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f%%\n", c.Code, label, c.Count, summary.Share(c)*100)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\npixels: %d counted, %d nodata\n", summary.Total, summary.NoData)
	if summary.Total > 0 {
		fmt.Fprintf(out, "range:  [%d, %d], mean %.2f\n", summary.Min, summary.Max, summary.Mean)
	}
	return nil
}
