package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/render"
	"github.com/matzehuels/jsongraph/pkg/session"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatDOT  = "dot"
	formatSVG  = render.FormatSVG
	formatPNG  = render.FormatPNG
	formatTree = "tree"
)

var validFormats = []string{formatJSON, formatYAML, formatDOT, formatSVG, formatPNG, formatTree}

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	engineOpts
	format  string
	output  string
	noStyle bool
	stats   bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts
	cmd := &cobra.Command{
		Use:   "generate [file|-]",
		Short: "Lay out a JSON document and export the diagram",
		Long: `Generate parses a JSON document, builds its node tree, lays it out and
writes the result. Reads stdin when the file is omitted or "-".

Formats: json (React Flow nodes and edges), yaml, dot, svg, png, tree.
Without --format the extension of --output decides, falling back to json.`,
		Example: `  jsongraph generate data.json -o graph.svg
  curl -s https://api.example.com/user | jsongraph generate -f tree
  jsongraph generate data.json --engine graphviz --direction right -f dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.runGenerate(cmd.Context(), name, opts)
		},
	}

	opts.engineOpts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(validFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noStyle, "no-style", false, "omit node styles from json and yaml output")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print graph statistics to stderr")
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, name string, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
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

	sess := c.newSession(engine, d, true)
	res, err := c.generate(ctx, sess, text)
	if err != nil {
		return err
	}
	if res.LayoutErr != nil {
		logger.Warn("writing graph without positions", "error", errors.UserMessage(res.LayoutErr))
	}

	snap := sess.Snapshot()
	data, err := encodeGraph(ctx, snap, format, opts.noStyle)
	if err != nil {
		return err
	}

	logger.Debug("generated", "engine", engine.Name(), "nodes", res.Stats.Nodes, "edges", res.Stats.Edges,
		"elapsed", res.Elapsed.Round(time.Millisecond))
	if opts.stats {
		printStats(c.errOut, res.Stats, res.Elapsed.Round(time.Millisecond).String())
	}

	if opts.output == "" {
		_, err = c.out.Write(data)
		return err
	}
	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	printSuccess(c.errOut, "Wrote %s diagram", format)
	printFile(c.errOut, opts.output)
	return nil
}

// generate runs sess.Generate under the layout timeout with a spinner.
func (c *CLI) generate(ctx context.Context, sess *session.Session, text string) (session.GenerateResult, error) {
	ctx, cancel := c.layoutContext(ctx)
	defer cancel()

	sp := newSpinner(ctx, c.errOut, "Laying out graph")
	sp.Start()
	res, err := sess.Generate(ctx, text)
	sp.Stop()
	return res, err
}

func resolveFormat(format, output string) (string, error) {
	if format == "" && output != "" {
		format = formatFromPath(output)
	}
	if format == "" {
		format = formatJSON
	}
	format = strings.ToLower(format)
	if format == "yml" {
		format = formatYAML
	}
	for _, f := range validFormats {
		if f == format {
			return format, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want %s)", format, strings.Join(validFormats, ", "))
}

// encodeGraph serializes a session snapshot in format.
func encodeGraph(ctx context.Context, snap session.Snapshot, format string, noStyle bool) ([]byte, error) {
	var buf bytes.Buffer
	doc := func() graph.Document {
		return graph.From(snap.Graph, graph.Options{Directives: snap.Directives, OmitStyle: noStyle})
	}

	switch format {
	case formatJSON:
		if err := graph.WriteJSON(doc(), &buf); err != nil {
			return nil, err
		}
	case formatYAML:
		if err := graph.WriteYAML(doc(), &buf); err != nil {
			return nil, err
		}
	case formatTree:
		buf.WriteString(renderTree(snap.Graph))
		buf.WriteByte('\n')
	case formatDOT, formatSVG, formatPNG:
		if snap.Graph.IsEmpty() {
			return nil, errors.New(errors.ErrCodeNotFound, "no graph to render")
		}
		dot := render.ToDOT(snap.Graph, render.Options{Directives: snap.Directives, Pinned: snap.LaidOut})
		if format == formatDOT {
			return []byte(dot), nil
		}
		return render.Render(ctx, dot, snap.LaidOut, format)
	default:
		return nil, fmt.Errorf("unhandled format %q", format)
	}
	return buf.Bytes(), nil
}
