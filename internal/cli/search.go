package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	"github.com/matzehuels/citegraph/pkg/service"
	"github.com/matzehuels/citegraph/pkg/tasks"
)

// searchOpts holds the search command flags.
type searchOpts struct {
	provider   string
	references bool
	depth      int
	children   int
	output     string
	format     string
	noTUI      bool
	serviceOpts
}

// searchCommand creates the search command, which crawls a citation graph
// and writes it to a file.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{depth: 1, output: "graph.json", format: service.FormatVisJS}

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Crawl the citation graph around a paper",
		Long: `Crawl the citation graph around a paper and write it to a file.

The paper is looked up by title or DOI. Each level follows citing papers
(or referenced papers with --references) of the previous level.`,
		Example: `  citegraph search "Attention is all you need" --depth 2
  citegraph search 10.1145/3292500.3330701 --references -o refs.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "bibliographic provider (default semantic_scholar)")
	cmd.Flags().BoolVar(&opts.references, "references", false, "follow references instead of citations")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", opts.depth, "number of levels to crawl (1-5)")
	cmd.Flags().IntVar(&opts.children, "max-children", 0, "papers followed per vertex (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(service.ExportFormats, ", "))
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "print plain progress instead of the interactive view")
	opts.serviceOpts.register(cmd)

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, title string, opts searchOpts) error {
	svc, closeFn, err := c.newService(ctx, opts.serviceOpts)
	if err != nil {
		return err
	}
	defer closeFn()

	req := service.SearchRequest{
		Title:       title,
		Provider:    opts.provider,
		Depth:       opts.depth,
		MaxChildren: opts.children,
	}
	if opts.references {
		req.Kind = "referencias"
	}

	prog := newProgress(c.Logger)
	started, err := svc.StartSearch(ctx, req)
	if err != nil {
		return err
	}
	c.Logger.Debug("search started", "task", started.TaskID, "provider", started.Provider)

	var snap tasks.Snapshot
	if opts.noTUI || !isTerminal() {
		snap, err = c.followPlain(ctx, svc, started)
	} else {
		snap, err = followTUI(svc, started)
	}
	svc.Wait()
	if err != nil {
		return err
	}

	switch snap.Status {
	case tasks.StatusError:
		return cgerrors.New(cgerrors.ErrCodeInternal, "search failed: %s", snap.Error)
	case tasks.StatusCancelled:
		printWarning("Search cancelled, writing the partial graph")
	}

	if err := writeExport(svc, opts.output, opts.format); err != nil {
		return err
	}
	stats := svc.Statistics()
	prog.done(fmt.Sprintf("Crawled %d papers", stats.Vertices), "edges", stats.Edges)
	printStats(stats.Vertices, stats.Edges, stats.Density)
	printFile(opts.output)
	fmt.Println()
	printNextStep("Compute metrics", "citegraph metrics "+opts.output)
	return nil
}

// followTUI shows the interactive progress view until the task ends.
func followTUI(svc *service.Service, started *service.SearchStarted) (tasks.Snapshot, error) {
	m := NewSearchModel(svc, started.TaskID, started.Title)
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return tasks.Snapshot{}, fmt.Errorf("progress view: %w", err)
	}
	fm := final.(SearchModel)
	if fm.Err() != nil {
		return tasks.Snapshot{}, fm.Err()
	}
	if !fm.Snapshot().Status.Terminal() {
		// The view was closed before the task ended.
		return svc.Progress(started.TaskID)
	}
	return fm.Snapshot(), nil
}

// followPlain polls the task with a spinner. Cancelling ctx cancels the
// task and waits for its partial result.
func (c *CLI) followPlain(ctx context.Context, svc *service.Service, started *service.SearchStarted) (tasks.Snapshot, error) {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Searching %q...", truncate(started.Title, 50)))
	spinner.Start()
	defer spinner.Stop()

	t, err := svc.Tasks().Get(started.TaskID)
	if err != nil {
		return tasks.Snapshot{}, err
	}
	label := fmt.Sprintf("Searching %q", truncate(started.Title, 50))
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-t.Done():
			return t.Snapshot(), nil
		case <-ctx.Done():
			_ = svc.Cancel(started.TaskID)
			<-t.Done()
			return t.Snapshot(), nil
		case <-ticker.C:
			snap := t.Snapshot()
			spinner.SetMessage(fmt.Sprintf("%s: level %d/%d, %d papers", label, snap.Depth, snap.MaxDepth, snap.Vertices))
		}
	}
}

// writeExport writes the current graph to path, creating parent
// directories as needed.
func writeExport(svc *service.Service, path, format string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := svc.Export(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isTerminal() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
