package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/session"
)

// watchDebounce coalesces the burst of events editors emit per save.
const watchDebounce = 100 * time.Millisecond

type watchOpts struct {
	engineOpts
	format string
	output string
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Regenerate the graph whenever a JSON file changes",
		Long: `Watch lays out the file once, then again after every save, printing
graph statistics. With --output the diagram is rewritten on each change.
Invalid JSON is reported and the previous output is kept.`,
		Example: `  jsongraph watch data.json
  jsongraph watch data.json -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], opts)
		},
	}

	opts.engineOpts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format when --output is set")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "rewrite this file on every change")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, name string, opts watchOpts) error {
	logger := loggerFromContext(ctx)

	format := ""
	if opts.output != "" {
		var err error
		if format, err = resolveFormat(opts.format, opts.output); err != nil {
			return err
		}
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
	regenerate := func() {
		c.regenerate(ctx, sess, name, opts.output, format)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors that save by rename replace the inode.
	abs, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	regenerate()
	printInfo(c.errOut, "Watching %s (ctrl+c to stop)", name)
	logger.Debug("watching", "file", abs, "engine", engine.Name())

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-debounce:
			debounce = nil
			regenerate()
		}
	}
}

// regenerate reloads name into sess and reports the outcome. Errors are
// printed, never returned, so watching continues.
func (c *CLI) regenerate(ctx context.Context, sess *session.Session, name, output, format string) {
	text, err := readFile(name)
	if err != nil {
		if errors.Is(err, errors.ErrCodeFileNotFound) {
			printWarning(c.errOut, "%s was removed; waiting for it to reappear", name)
			return
		}
		printError(c.errOut, "%s", errors.Detail(err))
		return
	}

	res, err := c.generate(ctx, sess, text)
	if err != nil {
		printError(c.errOut, "%s", errors.UserMessage(err))
		return
	}
	if res.LayoutErr != nil {
		printWarning(c.errOut, "%s", errors.UserMessage(res.LayoutErr))
	}
	printSuccess(c.errOut, "%s regenerated at %s", filepath.Base(name), time.Now().Format("15:04:05"))
	printStats(c.errOut, res.Stats, res.Elapsed.Round(time.Millisecond).String())

	if output == "" {
		return
	}
	p := newProgress(loggerFromContext(ctx))
	data, err := encodeGraph(ctx, sess.Snapshot(), format, false)
	if err == nil {
		err = writeOutput(output, data)
	}
	if err != nil {
		printError(c.errOut, "write %s: %v", output, err)
		return
	}
	p.done("Wrote " + output)
	printFile(c.errOut, output)
}
