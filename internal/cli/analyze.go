package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citegraph/pkg/metrics"
	"github.com/matzehuels/citegraph/pkg/service"
)

// metricsCommand creates the metrics command.
func (c *CLI) metricsCommand() *cobra.Command {
	var (
		req    service.MetricsRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "metrics <graph.json>",
		Short: "Compute centrality metrics for a graph file",
		Long: `Compute density, degree centrality and optionally PageRank,
betweenness and closeness for a graph file written by search or export.`,
		Example: `  citegraph metrics graph.json --betweenness`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.offlineService()
			if err := loadGraph(svc, args[0], false); err != nil {
				return err
			}
			rep, err := c.computeMetrics(cmd.Context(), svc, req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, rep)
			}
			printMetrics(rep)
			return nil
		},
	}

	cmd.Flags().BoolVar(&req.PageRank, "pagerank", true, "compute PageRank")
	cmd.Flags().BoolVar(&req.Betweenness, "betweenness", false, "compute betweenness centrality")
	cmd.Flags().BoolVar(&req.Closeness, "closeness", false, "compute closeness centrality")
	cmd.Flags().Float64Var(&req.Damping, "damping", 0.85, "PageRank damping factor")
	cmd.Flags().IntVar(&req.Iterations, "iterations", 100, "PageRank iterations")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func (c *CLI) computeMetrics(ctx context.Context, svc *service.Service, req service.MetricsRequest) (*metrics.Report, error) {
	prog := newProgress(c.Logger)
	rep, err := svc.Metrics(ctx, req)
	if err != nil {
		return nil, err
	}
	prog.done("Metrics computed")
	return rep, nil
}

func printMetrics(rep *metrics.Report) {
	printStats(rep.Vertices, rep.Edges, rep.Density)
	fmt.Println()
	printRanking("Degree centrality", rep.TopDegree)
	if len(rep.TopPageRank) > 0 {
		fmt.Println()
		printRanking("PageRank", rep.TopPageRank)
	}
	for _, m := range []struct {
		name   string
		values map[string]float64
	}{
		{"Betweenness", rep.Betweenness},
		{"Closeness", rep.Closeness},
	} {
		if len(m.values) == 0 {
			continue
		}
		fmt.Println()
		printRanking(m.name, topOf(m.values, metrics.TopN))
	}
}

func printRanking(title string, ranked []metrics.Ranked) {
	fmt.Println(StyleTitle.Render(title))
	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		rows[i] = []string{strconv.Itoa(i + 1), truncate(r.Title, 60), strconv.FormatFloat(r.Value, 'f', 4, 64)}
	}
	fmt.Println(renderTable([]string{"#", "Title", "Value"}, rows))
}

// topOf ranks a measure map by value, ties broken by id.
func topOf(values map[string]float64, n int) []metrics.Ranked {
	out := make([]metrics.Ranked, 0, len(values))
	for id, v := range values {
		out = append(out, metrics.Ranked{ID: id, Value: v, Title: id})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].ID < out[j].ID
	})
	return out[:min(n, len(out))]
}

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var (
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "classify <graph.json>",
		Short: "Classify self-citations in a graph file",
		Long: `Tag every article with a self-citation class:

  A   no self-citation involvement
  B   cites or is cited by a paper sharing an author
  AB  a B paper whose self-citation chain starts here
  S   no author data`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.offlineService()
			if err := loadGraph(svc, args[0], false); err != nil {
				return err
			}
			rep, err := svc.Classify()
			if err != nil {
				return err
			}
			if output != "" {
				if err := writeExport(svc, output, service.FormatVisJS); err != nil {
					return err
				}
			}
			if asJSON {
				return printJSON(cmd, rep)
			}

			s := rep.Summary
			printSuccess("Classified %d articles", s.Total)
			rows := [][]string{
				{classLabel("A"), strconv.Itoa(s.A)},
				{classLabel("B"), strconv.Itoa(s.B)},
				{classLabel("AB"), strconv.Itoa(s.AB)},
				{classLabel("S"), strconv.Itoa(s.S)},
			}
			fmt.Println(renderTable([]string{"Class", "Articles"}, rows))
			if n := len(rep.Degrade.Samples); n > 0 {
				printDetail("Self-citations found: %d pairs", rep.Degrade.Pairs)
				for _, smp := range rep.Degrade.Samples[:min(5, n)] {
					printDetail("%s %s %s", smp.From, iconArrow, smp.To)
				}
			}
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the classified graph to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func classLabel(class string) string {
	return lipgloss.NewStyle().Foreground(classColors[class]).Bold(true).Render(class)
}

// exportCommand creates the export command, which converts a graph file.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <graph.json>",
		Short: "Convert a graph file to another format",
		Example: `  citegraph export graph.json -f svg -o graph.svg
  citegraph export graph.json -f dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.offlineService()
			if err := loadGraph(svc, args[0], false); err != nil {
				return err
			}
			if output == "" {
				return svc.Export(cmd.OutOrStdout(), format)
			}
			if err := writeExport(svc, output, format); err != nil {
				return err
			}
			printSuccess("Exported %s", format)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", service.FormatJSON, "output format: "+strings.Join(service.ExportFormats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// importCommand creates the import command, which combines graph files.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output  string
		format  string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Combine graph files into one",
		Long: `Load one or more graph files, in the canonical or the visualization
format, and write the combined graph. Later files are merged into earlier
ones unless --replace is given.`,
		Example: `  citegraph import a.json b.json -o combined.json`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.offlineService()
			for _, path := range args {
				if err := loadGraph(svc, path, !replace); err != nil {
					return err
				}
				st := svc.Statistics()
				c.Logger.Info("loaded", "file", path, "vertices", st.Vertices, "edges", st.Edges)
			}
			if err := writeExport(svc, output, format); err != nil {
				return err
			}
			st := svc.Statistics()
			printSuccess("Imported %d files", len(args))
			printStats(st.Vertices, st.Edges, st.Density)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", service.FormatVisJS, "output format: "+strings.Join(service.ExportFormats, ", "))
	cmd.Flags().BoolVar(&replace, "replace", false, "let each file replace the previous one instead of merging")
	return cmd
}
