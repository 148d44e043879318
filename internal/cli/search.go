package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/search"
)

type searchOpts struct {
	engineOpts
	mode   string
	asJSON bool
}

// searchOutput is the --json form of a search result.
type searchOutput struct {
	Query    string        `json:"query"`
	Segments []string      `json:"segments"`
	Found    bool          `json:"found"`
	NodeID   string        `json:"node_id,omitempty"`
	Label    string        `json:"label,omitempty"`
	Kind     string        `json:"kind,omitempty"`
	Path     []string      `json:"path,omitempty"`
	Focus    *search.Focus `json:"focus,omitempty"`
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOpts
	cmd := &cobra.Command{
		Use:   "search [file|-] <query>",
		Short: "Find the node at a dotted path",
		Long: `Search builds the graph for a JSON document and resolves a dotted path
such as "address.city" or "items[0].name" to a node. When the matched node
holds a primitive, its value node is reported.

Mode "path" requires every segment to match the node's ancestors; mode
"segment" compares only the last segment.`,
		Example: `  jsongraph search data.json address.city
  jsongraph sample | jsongraph search - name --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, query := "", args[0]
			if len(args) == 2 {
				name, query = args[0], args[1]
			}
			return c.runSearch(cmd.Context(), name, query, opts)
		},
	}

	opts.engineOpts.register(cmd)
	cmd.Flags().StringVar(&opts.mode, "mode", "", "match mode: path, segment (default from config)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (c *CLI) runSearch(ctx context.Context, name, query string, opts searchOpts) error {
	if opts.mode != "" {
		if _, err := search.ParseMode(opts.mode); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidQuery, err, "invalid search mode")
		}
		c.Config.Search.Mode = opts.mode
	}

	text, err := c.readInput(name)
	if err != nil {
		return err
	}
	d, err := c.directives(opts.engineOpts)
	if err != nil {
		return err
	}
	engine, closeEngine, err := c.newEngine(ctx, opts.engineOpts)
	if err != nil {
		return err
	}
	defer closeEngine()

	sess := c.newSession(engine, d, opts.asJSON)
	if _, err := c.generate(ctx, sess, text); err != nil {
		return err
	}
	res, err := sess.Search(ctx, query)
	if err != nil {
		return err
	}

	if opts.asJSON {
		out := searchOutput{Query: query, Segments: res.Segments, Found: res.Found}
		if out.Segments == nil {
			out.Segments = []string{}
		}
		if res.Found {
			out.NodeID = res.Node.ID
			out.Label = res.Node.Label
			out.Kind = res.Node.Kind.String()
			out.Path = res.Path
			focus := res.Focus
			out.Focus = &focus
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if !res.Found {
		return nil
	}
	fmt.Fprintln(c.out, StyleHighlight.Render(strings.Join(res.Path, ".")))
	printKeyValue(c.out, "node", res.Node.ID)
	printKeyValue(c.out, "label", res.Node.Label)
	printKeyValue(c.out, "kind", res.Node.Kind.String())
	if res.Match != nil && res.Match.ID != res.Node.ID {
		printKeyValue(c.out, "matched", fmt.Sprintf("%s (%s)", res.Match.Label, res.Match.ID))
	}
	printKeyValue(c.out, "focus", fmt.Sprintf("%.0f, %.0f @ %.1fx", res.Focus.X, res.Focus.Y, res.Focus.Zoom))
	return nil
}
