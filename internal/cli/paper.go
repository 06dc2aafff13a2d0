package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cgio "github.com/matzehuels/citegraph/pkg/io"
	"github.com/matzehuels/citegraph/pkg/service"
)

// paperCommand creates the paper command, which looks up one paper.
func (c *CLI) paperCommand() *cobra.Command {
	var (
		provider string
		asJSON   bool
		so       serviceOpts
	)

	cmd := &cobra.Command{
		Use:     "paper <title|doi>",
		Short:   "Look up a single paper",
		Example: `  citegraph paper "Deep residual learning for image recognition"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := c.newService(ctx, so)
			if err != nil {
				return err
			}
			defer closeFn()

			query := strings.Join(args, " ")
			doc, err := withSpinner(ctx, fmt.Sprintf("Looking up %q...", truncate(query, 50)), func() (cgio.InfoDoc, error) {
				return svc.Paper(ctx, query, provider, so.apiKey)
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, doc)
			}
			printPaper(doc)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "bibliographic provider (default semantic_scholar)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw record")
	so.register(cmd)
	return cmd
}

// authorCommand creates the author command, which lists an author's papers.
func (c *CLI) authorCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
		so     serviceOpts
	)

	cmd := &cobra.Command{
		Use:     "author <name>",
		Short:   "List the papers of an author",
		Example: `  citegraph author "Geoffrey Hinton" --limit 20`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeFn, err := c.newService(ctx, so)
			if err != nil {
				return err
			}
			defer closeFn()

			name := strings.Join(args, " ")
			res, err := withSpinner(ctx, fmt.Sprintf("Looking up %s...", name), func() (*service.AuthorPapers, error) {
				return svc.AuthorPapers(ctx, name, limit, so.apiKey)
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, res)
			}

			printSuccess("%s (%d papers)", res.Name, len(res.Papers))
			printDetail("Author ID: %s", res.AuthorID)
			if len(res.Papers) == 0 {
				return nil
			}
			rows := make([][]string, len(res.Papers))
			for i, p := range res.Papers {
				rows[i] = []string{truncate(p.Title, 60), yearString(p.Year), strconv.Itoa(p.CitationCount)}
			}
			fmt.Println(renderTable([]string{"Title", "Year", "Citations"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of papers (1-500)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw records")
	so.register(cmd)
	return cmd
}

// withSpinner runs fn while a spinner is shown.
func withSpinner[T any](ctx context.Context, msg string, fn func() (T, error)) (T, error) {
	spinner := newSpinnerWithContext(ctx, msg)
	spinner.Start()
	v, err := fn()
	spinner.Stop()
	return v, err
}

func printPaper(doc cgio.InfoDoc) {
	printSuccess("%s", doc.Title)
	printKeyValue("Authors", strings.Join(doc.Authors, ", "))
	printKeyValue("Year", yearString(doc.Year))
	printKeyValue("Venue", doc.Venue)
	printKeyValue("Citations", strconv.Itoa(doc.CitationCount))
	if doc.DOI != nil {
		printKeyValue("DOI", *doc.DOI)
	}
	if doc.URL != nil {
		printKeyValue("URL", *doc.URL)
	}
	if len(doc.Topics) > 0 {
		printKeyValue("Topics", strings.Join(doc.Topics, ", "))
	}
}

func yearString(y *int) string {
	if y == nil {
		return "-"
	}
	return strconv.Itoa(*y)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
