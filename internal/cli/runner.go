package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/adapter"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/form"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/slot"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options tune behavior from root flags. Empty strings defer to config.
type Options struct {
	Group      bool   // list grouped by pending/done
	Store      string // store variant
	Theme      string
	ConfigPath string
	Ephemeral  bool // keep items in memory only
	Color      bool // force color even when not a terminal
	NoColor    bool
}

// usageError marks mistakes in how the command was invoked (exit code 2).
type usageError struct {
	msg  string
	hint string
}

func (e usageError) Error() string { return e.msg }

func usage(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, log: zerolog.Nop()}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	var ue usageError
	switch {
	case errors.As(err, &ue):
		if ue.hint != "" {
			fmt.Fprintln(stderr, ui.For(stderr).C(ui.Current().Muted, "Hint: "+ue.hint))
		}
		return 2
	case strings.HasPrefix(err.Error(), "unknown command"):
		fmt.Fprintln(stderr)
		_ = root.Usage()
		return 2
	}
	a.log.Error().Err(err).Msg("command failed")
	return 1
}

// app carries what the subcommands share. The store is opened on first use
// so help and usage errors never touch storage.
type app struct {
	opt    Options
	cfg    config.Config
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer

	slot    slot.Slot
	adapter *adapter.Adapter
	closers []io.Closer
}

func (a *app) setup() error {
	cfg, err := config.Load(a.opt.ConfigPath)
	if err != nil {
		return err
	}
	if a.opt.Store != "" {
		cfg.Store.Variant = a.opt.Store
	}
	if a.opt.Theme != "" {
		cfg.UI.Theme = a.opt.Theme
	}
	if a.opt.Ephemeral {
		cfg.Storage.Backend = string(slot.BackendMemory)
	}
	a.cfg = cfg

	ui.SetColorForcing(a.opt.Color, a.opt.NoColor || os.Getenv("NO_COLOR") != "")
	if err := ui.SetTheme(cfg.UI.Theme); err != nil {
		return usage("%v", err)
	}

	log, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	a.log = log
	a.closers = append(a.closers, closer)
	return nil
}

func (a *app) store() (*adapter.Adapter, error) {
	if a.adapter != nil {
		return a.adapter, nil
	}
	variant, err := store.ParseVariant(a.cfg.Store.Variant)
	if err != nil {
		return nil, usage("%v", err)
	}
	backend, err := slot.ParseBackend(a.cfg.Storage.Backend)
	if err != nil {
		return nil, usage("%v", err)
	}
	s, err := slot.Open(backend, a.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.slot = s
	a.closers = append(a.closers, s)

	ad, err := adapter.Build(context.Background(), s, adapter.Options{
		Active:  variant,
		Persist: a.cfg.Store.Persist,
		Log:     a.log,
	})
	if err != nil {
		return nil, err
	}
	ad.Subscribe(func(v store.Variant, items []model.Item) {
		a.log.Debug().Str("variant", string(v)).Int("items", len(items)).Msg("active store updated")
	})
	a.log.Info().
		Str("variant", string(variant)).
		Str("backend", string(backend)).
		Bool("persist", a.cfg.Store.Persist).
		Msg("store ready")
	a.adapter = ad
	return ad, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

func exactArgs(n int, use string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usage("usage: todo %s", use)
		}
		return nil
	}
}

func minArgs(n int, use string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usage("usage: todo %s", use)
		}
		return nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny todo list with three interchangeable stores",
		Long: `todo keeps a todo list in one of three store variants:
  observable  a minimal observable store (alias: zustand)
  provider    a context provider store   (alias: context)
  reducer     an action/reducer store    (alias: redux)
Each variant owns its own list. Run "todo ui" for the interactive view.`,
		Example: `  todo add "Buy milk"
  todo ls
  todo done 2
  todo --store reducer rm 3`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error(), hint: "run `todo --help`"}
	})

	pf := root.PersistentFlags()
	pf.BoolVar(&a.opt.Group, "group", false, "group output by pending/done")
	pf.StringVar(&a.opt.Store, "store", "", "store variant: observable, provider or reducer")
	pf.StringVar(&a.opt.Theme, "theme", "", "output theme: classic, neon or mono")
	pf.StringVar(&a.opt.ConfigPath, "config", "", "config file (default $HOME/.config/tada/config.toml)")
	pf.BoolVar(&a.opt.Ephemeral, "ephemeral", false, "keep items in memory for this run only")
	pf.BoolVar(&a.opt.Color, "color", false, "force colored output")
	pf.BoolVar(&a.opt.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		&cobra.Command{
			Use:   "add <title...>",
			Short: "Add a new item (title can be multiple words)",
			Args:  minArgs(1, "add <title...>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doAdd(strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List items",
			Args:    exactArgs(0, "ls"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doList()
			},
		},
		&cobra.Command{
			Use:   "done <index>",
			Short: "Toggle done for item at 1-based index",
			Args:  exactArgs(1, "done <index>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doToggle(args[0])
			},
		},
		&cobra.Command{
			Use:   "edit <index> <title...>",
			Short: "Rename item at 1-based index",
			Args:  minArgs(2, "edit <index> <title...>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doEdit(args[0], strings.Join(args[1:], " "))
			},
		},
		&cobra.Command{
			Use:   "rm <index>",
			Short: "Remove item at 1-based index",
			Args:  exactArgs(1, "rm <index>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doRemove(args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every completed item",
			Args:  exactArgs(0, "clear"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doClear()
			},
		},
		&cobra.Command{
			Use:   "stores",
			Short: "Show the store variants and how many items each holds",
			Args:  exactArgs(0, "stores"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doStores()
			},
		},
		&cobra.Command{
			Use:   "ui",
			Short: "Open the interactive list and form",
			Args:  exactArgs(0, "ui"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.doUI()
			},
		},
		newFormCmd(a),
	)
	return root
}

func newFormCmd(a *app) *cobra.Command {
	var values []string
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Validate and submit the example form",
		Example: `  todo form --field username=lilei --field email=li@example.com \
    --field phone=13800138000 --field agree=true`,
		Args: exactArgs(0, "form --field name=value..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.doForm(values)
		},
	}
	cmd.Flags().StringArrayVarP(&values, "field", "f", nil, "field value as name=value (repeatable)")
	return cmd
}

// -------------- subcommand impls ----------------

func (a *app) doList() error {
	st, err := a.store()
	if err != nil {
		return err
	}
	items := st.Items()
	p, t := ui.For(a.stdout), ui.Current()

	// Header + progress
	d, pn := model.Stats(items)
	header := fmt.Sprintf("%s %s  %s %d  %s %d  %s %d",
		p.C(t.Title, "Todos"),
		p.C(t.Muted, "("+st.Active().Label()+")"),
		p.C(t.Success, t.SymDone), d,
		p.C(t.Pending, t.SymUnchecked), pn,
		p.C(t.Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, p.C(t.Muted, ui.ProgressBar(d, d+pn, 28)))
	lines = append(lines, "")

	if a.opt.Group {
		lines = append(lines, a.groupLines(items)...)
	} else {
		lines = append(lines, a.flatLines(items, nil)...)
	}
	lines = append(lines, "")
	lines = append(lines, p.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(a.stdout, lines)
	return nil
}

func (a *app) doAdd(title string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return usage("add: empty title")
	}
	st.Add(title)
	ui.OK(a.stdout, "added")
	return nil
}

// pick resolves a 1-based index argument against the active store.
func (a *app) pick(st *adapter.Adapter, cmd, arg string) (model.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Item{}, usage("%s: not a number: %s", cmd, arg)
	}
	items := st.Items()
	if n < 1 || n > len(items) {
		return model.Item{}, usageError{
			msg:  fmt.Sprintf("index out of range: have %d, got %d", len(items), n),
			hint: "run `todo ls` to see valid indexes",
		}
	}
	return items[n-1], nil
}

func (a *app) doToggle(arg string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	it, err := a.pick(st, "done", arg)
	if err != nil {
		return err
	}
	st.Toggle(it.ID)
	ui.OK(a.stdout, "toggled")
	return nil
}

func (a *app) doEdit(arg, title string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	it, err := a.pick(st, "edit", arg)
	if err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" {
		return usage("edit: empty title")
	}
	st.Update(it.ID, title)
	ui.OK(a.stdout, "updated")
	return nil
}

func (a *app) doRemove(arg string) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	it, err := a.pick(st, "rm", arg)
	if err != nil {
		return err
	}
	st.Remove(it.ID)
	ui.OK(a.stdout, "removed")
	return nil
}

func (a *app) doClear() error {
	st, err := a.store()
	if err != nil {
		return err
	}
	done, _ := st.Stats()
	st.ClearCompleted()
	ui.OK(a.stdout, fmt.Sprintf("cleared %d completed", done))
	return nil
}

func (a *app) doStores() error {
	st, err := a.store()
	if err != nil {
		return err
	}
	p, t := ui.For(a.stdout), ui.Current()
	for _, v := range st.Variants() {
		mark := " "
		if v == st.Active() {
			mark = p.C(t.Accent, "*")
		}
		fmt.Fprintf(a.stdout, "%s %-11s %-17s %d items\n", mark, v, v.Label(), st.Count(v))
	}
	return nil
}

func (a *app) doUI() error {
	st, err := a.store()
	if err != nil {
		return err
	}
	schema, err := form.DefaultSchema()
	if err != nil {
		return fmt.Errorf("form schema: %w", err)
	}
	return tui.Run(st, schema, a.log)
}

func (a *app) doForm(values []string) error {
	schema, err := form.DefaultSchema()
	if err != nil {
		return fmt.Errorf("form schema: %w", err)
	}
	f := form.New(schema)
	for _, kv := range values {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return usage("form: want name=value, got %q", kv)
		}
		k = strings.TrimSpace(k)
		if _, ok := schema.Field(k); !ok {
			return usage("form: unknown field %q", k)
		}
		f.Set(k, v)
	}
	if _, errs := f.Submit(); len(errs) > 0 {
		for _, fld := range schema.Fields {
			if msg, bad := errs[fld.Name]; bad {
				ui.Fail(a.stderr, fld.Label+": "+msg)
			}
		}
		return usage("form: %d invalid field(s)", len(errs))
	}
	ui.OK(a.stdout, "form submitted")
	return nil
}

// -------------- rendering helpers --------------

func (a *app) flatLines(items []model.Item, index map[string]int) []string {
	p, t := ui.For(a.stdout), ui.Current()
	if len(items) == 0 {
		return []string{p.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		n := i + 1
		if index != nil {
			n = index[it.ID]
		}
		idx := fmt.Sprintf("%2d.", n)
		box := t.BoxUnchecked
		color := t.Muted
		title := ui.Truncate(it.Title, 80)
		if it.Completed {
			box, color = t.BoxChecked, t.Success
			title = p.C(t.Done, title)
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			p.C(t.Muted, idx), p.C(color, box), title))
	}
	return out
}

// groupLines keeps each item's position in the full list so indexes stay
// usable with done/rm.
func (a *app) groupLines(items []model.Item) []string {
	p, t := ui.For(a.stdout), ui.Current()
	index := make(map[string]int, len(items))
	var pend, done []model.Item
	for i, it := range items {
		index[it.ID] = i + 1
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, p.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, p.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, a.flatLines(pend, index)...)
	}
	lines = append(lines, "")
	lines = append(lines, p.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, p.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, a.flatLines(done, index)...)
	}
	return lines
}
