package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tadacards/internal/app"
	"github.com/Makepad-fr/tadacards/internal/config"
	"github.com/Makepad-fr/tadacards/internal/logging"
	"github.com/Makepad-fr/tadacards/internal/model"
	"github.com/Makepad-fr/tadacards/internal/tui"
	"github.com/Makepad-fr/tadacards/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks failures caused by how the command was called.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// runner carries what every subcommand needs once the root has set it up.
type runner struct {
	stdout, stderr io.Writer

	configPath string
	ov         config.Overrides

	cfg     config.Config
	theme   ui.Theme
	log     *log.Logger
	app     *app.App
	logFile *os.File
}

// Run executes the CLI with args (without the program name) and returns an
// exit code: 0 ok, 1 error, 2 usage.
func Run(args []string, stdout, stderr io.Writer) int {
	r := &runner{stdout: stdout, stderr: stderr}
	root := r.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := r.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return ExitOK
	}

	theme := r.theme
	if theme.Name == "" {
		theme = ui.NewTheme("classic", stderr, true)
	}
	theme.Fail(stderr, err.Error())

	var ue usageError
	if errors.As(err, &ue) || isCobraUsage(err) {
		return ExitUsage
	}
	return ExitError
}

// isCobraUsage recognizes argument and flag errors reported by cobra itself.
func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "accepts ", "requires ", "invalid argument", "flag needs an argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "todo - a tiny card list that remembers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  todo add "Buy milk" --text "two litres"
  todo ls
  todo toggle 2
  todo rm 3f2a9c1e
  todo ui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("missing subcommand")
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&r.configPath, "config", "", "config file (TOML)")
	pf.StringVar(&r.ov.Backend, "backend", "", "storage backend: file, sqlite or memory")
	pf.StringVar(&r.ov.Path, "path", "", "storage location")
	pf.StringVar(&r.ov.Theme, "theme", "", "theme: classic, neon or mono")
	pf.StringVar(&r.ov.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&r.ov.NoColor, "no-color", false, "disable colors")

	root.AddCommand(r.addCmd(), r.listCmd(), r.toggleCmd(), r.removeCmd(), r.uiCmd())
	return root
}

// open loads config and builds the App. logTo is where log lines go.
func (r *runner) open(logTo io.Writer) error {
	cfg, err := config.Load(r.configPath, r.ov)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return usageError{msg: err.Error()}
		}
		return err
	}
	r.cfg = cfg
	r.theme = ui.NewTheme(cfg.Theme, r.stdout, cfg.NoColor)

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		r.logFile = f
		logTo = f
	}
	logger, err := logging.New(logTo, cfg.LogLevel)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	r.log = logger

	a, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	r.app = a
	return nil
}

func (r *runner) close() error {
	var err error
	if r.app != nil {
		err = r.app.Close()
		r.app = nil
	}
	if r.logFile != nil {
		r.logFile.Close()
		r.logFile = nil
	}
	return err
}

// saved reports a failed write after a mutation.
func (r *runner) saved() error {
	return r.app.Bridge.Err()
}

func (r *runner) addCmd() *cobra.Command {
	var title, text string
	cmd := &cobra.Command{
		Use:   "add [title...]",
		Short: "Add a new card (title can be multiple words)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if cmd.Flags().Changed("title") {
					return usagef("add: give the title either as arguments or with --title")
				}
				title = strings.Join(args, " ")
			}
			if err := r.open(r.stderr); err != nil {
				return err
			}
			t := r.app.AddTodo(title, text)
			if err := r.saved(); err != nil {
				return err
			}
			r.theme.OK(r.stdout, "Todo added successfully ["+t.ID+"]")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "card title")
	cmd.Flags().StringVar(&text, "text", "", "card text")
	return cmd
}

func (r *runner) listCmd() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List cards",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.open(r.stderr); err != nil {
				return err
			}
			todos := number(r.app.Store.Todos())
			d, p := r.app.Store.Stats()

			lines := []string{
				r.theme.Header(d, p),
				r.theme.Muted.Render(r.theme.ProgressBar(d, d+p, 28)),
				"",
			}
			if group {
				lines = append(lines, r.groupLines(todos)...)
			} else {
				lines = append(lines, r.flatLines(todos)...)
			}
			lines = append(lines, "", r.theme.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
			fmt.Fprintln(r.stdout, r.theme.Panel(lines))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func (r *runner) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <ref>",
		Aliases: []string{"done"},
		Short:   "Toggle completed for a card (id, id prefix or 1-based index)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.open(r.stderr); err != nil {
				return err
			}
			id, err := resolveRef(r.app.Store.Todos(), args[0])
			if err != nil {
				r.theme.Hint(r.stderr, "Hint: run `todo ls` to see valid refs")
				return err
			}
			r.app.Store.Toggle(id)
			if err := r.saved(); err != nil {
				return err
			}
			r.theme.OK(r.stdout, "toggled")
			return nil
		},
	}
}

func (r *runner) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"remove"},
		Short:   "Remove a card (id, id prefix or 1-based index)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.open(r.stderr); err != nil {
				return err
			}
			id, err := resolveRef(r.app.Store.Todos(), args[0])
			if err != nil {
				r.theme.Hint(r.stderr, "Hint: run `todo ls` to see valid refs")
				return err
			}
			r.app.Store.Remove(id)
			if err := r.saved(); err != nil {
				return err
			}
			r.theme.OK(r.stdout, "removed")
			return nil
		},
	}
}

func (r *runner) uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive card view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The screen belongs to the TUI; logs only go to log_file.
			if err := r.open(io.Discard); err != nil {
				return err
			}
			return tui.Run(r.app, r.theme)
		},
	}
}

// resolveRef turns an exact id, a 1-based index or a unique id prefix (in
// that order) into an id.
func resolveRef(todos []model.Todo, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", usagef("empty ref")
	}
	for _, t := range todos {
		if t.ID == ref {
			return t.ID, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(todos) {
			return "", usagef("index out of range: have %d, got %d", len(todos), n)
		}
		return todos[n-1].ID, nil
	}
	var match []string
	for _, t := range todos {
		if strings.HasPrefix(t.ID, ref) {
			match = append(match, t.ID)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return "", usagef("no card matches %q", ref)
	default:
		return "", usagef("ref %q matches %d cards", ref, len(match))
	}
}

// -------------- rendering helpers --------------

// indexed keeps a card's 1-based position in the full list so grouped
// output shows the same refs as flat output.
type indexed struct {
	n    int
	todo model.Todo
}

func number(todos []model.Todo) []indexed {
	out := make([]indexed, 0, len(todos))
	for i, t := range todos {
		out = append(out, indexed{n: i + 1, todo: t})
	}
	return out
}

func (r *runner) flatLines(todos []indexed) []string {
	if len(todos) == 0 {
		return []string{r.theme.Muted.Render("no items")}
	}
	out := make([]string, 0, len(todos))
	for _, it := range todos {
		out = append(out, r.theme.Line(it.n, it.todo))
	}
	return out
}

func (r *runner) groupLines(todos []indexed) []string {
	var pend, done []indexed
	for _, it := range todos {
		if it.todo.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, r.theme.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, r.theme.Muted.Render("(none)"))
	} else {
		lines = append(lines, r.flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, r.theme.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, r.theme.Muted.Render("(none)"))
	} else {
		lines = append(lines, r.flatLines(done)...)
	}
	return lines
}
