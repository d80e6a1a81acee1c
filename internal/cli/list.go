package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/ui"
	"github.com/idilsaglam/grocery/internal/view"
)

type lsOptions struct {
	Search string
	Group  bool
}

func addLs(topLevel *cobra.Command, e *env) {
	o := &lsOptions{}
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Print the list.",
		Example: `
grocery ls
grocery ls --search milk
grocery ls --group
`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := e.logger(nil)
			if err != nil {
				return err
			}
			defer closeLog()

			s, err := e.store(log)
			if err != nil {
				return err
			}
			if err := initialize(cmd.Context(), s); err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), s.State().Items, *o)
			return nil
		},
	}

	cmd.Flags().StringVar(&o.Search, "search", "", "Only show items whose label contains this text.")
	cmd.Flags().BoolVar(&o.Group, "group", false, "Group output by pending/checked.")

	topLevel.AddCommand(cmd)
}

// initialize performs the session's load and turns a failure into an error.
func initialize(ctx context.Context, s *store.Store) error {
	if op := s.Initialize(ctx); op.Failed() {
		return fmt.Errorf("load: %s", op.Err)
	}
	return nil
}

func printList(w io.Writer, items []model.Item, o lsOptions) {
	t := ui.Current()
	checked, pending := view.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Groceries"),
		t.Success.Render(t.SymOK), checked,
		t.Pending.Render("•"), pending,
		t.Accent.Render("Total"), len(items),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(checked, len(items), 28)), ""}

	visible := view.Filter(items, o.Search)
	switch {
	case len(items) == 0:
		lines = append(lines, t.Muted.Render("Your list is empty."))
	case len(visible) == 0:
		lines = append(lines, t.Muted.Render(fmt.Sprintf("nothing matches %q", o.Search)))
	case o.Group:
		lines = append(lines, groupLines(visible)...)
	default:
		lines = append(lines, flatLines(visible)...)
	}

	lines = append(lines, "", t.Muted.Render(view.CountLabel(len(items))))
	if len(items) == 0 {
		lines = append(lines, t.Muted.Render("Tip: add with `grocery add Milk`"))
	}
	fmt.Fprintln(w, ui.Panel(lines))
}

const maxLabel = 80

func flatLines(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if r := []rune(it.Label); len(r) > maxLabel {
			it.Label = string(r[:maxLabel-3]) + "..."
		}
		id := ui.Current().Muted.Render(fmt.Sprintf("%3d", it.ID))
		out = append(out, id+" "+ui.ItemLine(it, model.StatusNone))
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	pending, checked := view.Group(items)
	section := func(title string, items []model.Item) []string {
		lines := []string{t.Accent.Render(title)}
		if len(items) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(items)...)
	}
	lines := section("Pending", pending)
	lines = append(lines, "")
	return append(lines, section("Checked", checked)...)
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s takes no arguments, got %s", cmd.Name(), strings.Join(args, " "))
	}
	return nil
}
