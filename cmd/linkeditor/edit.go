package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/linkeditor/internal/config"
	"github.com/joestump/linkeditor/internal/document"
	"github.com/joestump/linkeditor/internal/linkcmd"
	"github.com/joestump/linkeditor/internal/locale"
	"github.com/joestump/linkeditor/internal/logging"
	"github.com/joestump/linkeditor/internal/lookup"
)

// session is one editing run over a document file.
type session struct {
	path  string
	model *document.Model
	cmd   *linkcmd.Command
	tr    *locale.Translator
	log   *zap.SugaredLogger
}

// selectionFlags are shared by the editing commands. A negative to selects
// a caret at from.
type selectionFlags struct {
	doc  string
	from int
	to   int
}

func (f *selectionFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.doc, "doc", "", "document JSON file")
	c.Flags().IntVar(&f.from, "from", 0, "selection start (or caret position)")
	c.Flags().IntVar(&f.to, "to", -1, "selection end; omit for a caret")
	_ = c.MarkFlagRequired("doc")
}

func (f *selectionFlags) selection() document.Selection {
	if f.to < 0 {
		return document.Caret(document.Position(f.from))
	}
	return document.Select(document.NewRange(document.Position(f.from), document.Position(f.to)))
}

// openSession loads the client configuration and the document, applies the
// selection and attaches a link command backed by the lookup service.
func openSession(f *selectionFlags) (*session, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return newSession(f, lookup.New(cfg.Lookup), locale.New(cfg.Locale), log)
}

func newSession(f *selectionFlags, l linkcmd.Lookup, tr *locale.Translator, log *zap.SugaredLogger) (*session, error) {
	data, err := os.ReadFile(f.doc)
	if err != nil {
		return nil, err
	}
	m, err := document.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := m.SetSelection(f.selection()); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return &session{
		path:  f.doc,
		model: m,
		cmd:   linkcmd.NewCommand(m, linkcmd.NewResolver(l, tr, log), log),
		tr:    tr,
		log:   log,
	}, nil
}

// finish waits for pending lookups, prints the result and closes the command.
func (s *session) finish(w io.Writer) {
	s.cmd.Wait()
	printState(w, s.cmd.State(), linkcmd.Project(s.cmd.State(), s.tr))
	s.cmd.Close()
	_ = s.log.Sync()
}

func (s *session) save() error {
	data, err := json.MarshalIndent(s.model.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(data, '\n'), 0o644)
}

func printState(w io.Writer, st linkcmd.State, v linkcmd.View) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "link\t%s\n", st.Value)
	fmt.Fprintf(tw, "title\t%s\n", v.PreviewLabel)
	fmt.Fprintf(tw, "keyword\t%s\t%s\n", st.KeywordID, v.KeywordLabel)
	fmt.Fprintf(tw, "enabled\t%t\n", st.IsEnabled)
	fmt.Fprintf(tw, "actions\t%s\n", actionList(v))
	tw.Flush()
}

func actionList(v linkcmd.View) string {
	var out []byte
	add := func(enabled bool, label string) {
		if !enabled {
			return
		}
		if len(out) > 0 {
			out = append(out, ", "...)
		}
		out = append(out, label...)
	}
	add(v.PreviewEnabled, v.PreviewTooltip)
	add(v.EditEnabled, v.EditLabel)
	add(v.UnlinkEnabled, v.UnlinkLabel)
	if len(out) == 0 {
		return "-"
	}
	return string(out)
}

func newLinkCmd() *cobra.Command {
	var (
		sel                   selectionFlags
		linkID, text, keyword string
	)
	c := &cobra.Command{
		Use:   "link",
		Short: "Apply or update an internal link at the selection",
		Long: "With a caret inside a link, the whole link is retargeted. With a caret elsewhere,\n" +
			"--text is inserted as a new link. With a range, the link is applied wherever allowed.\n" +
			"An empty --id or --keyword removes that attribute.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(&sel)
			if err != nil {
				return err
			}
			return runLink(cmd.OutOrStdout(), s, linkID, text, keyword)
		},
	}
	sel.register(c)
	c.Flags().StringVar(&linkID, "id", "", "link id")
	c.Flags().StringVar(&text, "text", "", "text to insert at a caret outside a link (defaults to the id)")
	c.Flags().StringVar(&keyword, "keyword", "", "keyword id")
	return c
}

func runLink(w io.Writer, s *session, linkID, text, keyword string) error {
	defer s.finish(w)
	if !s.cmd.State().IsEnabled {
		s.log.Warnw("links are not allowed at the selection", "doc", s.path)
	}
	if text == "" {
		text = linkID
	}
	s.cmd.Execute(linkID, text, keyword)
	return s.save()
}

func newUnlinkCmd() *cobra.Command {
	var sel selectionFlags
	c := &cobra.Command{
		Use:   "unlink",
		Short: "Remove the internal link at the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(&sel)
			if err != nil {
				return err
			}
			return runUnlink(cmd.OutOrStdout(), s)
		},
	}
	sel.register(c)
	return c
}

var errNoLink = errors.New("no internal link at the selection")

// runUnlink goes through the action surface so unlink is refused exactly
// when the rendered actions would not offer it.
func runUnlink(w io.Writer, s *session) error {
	defer s.finish(w)
	a := linkcmd.NewActions(s.tr)
	defer a.Close()
	a.Update(s.cmd.State())
	if !a.Unlink() {
		return errNoLink
	}
	linkcmd.Dispatch(s.cmd, <-a.Intents(), linkcmd.Handlers{})
	return s.save()
}

func newInspectCmd() *cobra.Command {
	var sel selectionFlags
	c := &cobra.Command{
		Use:   "inspect",
		Short: "Show the link state and actions at the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(&sel)
			if err != nil {
				return err
			}
			s.finish(cmd.OutOrStdout())
			return nil
		},
	}
	sel.register(c)
	return c
}
