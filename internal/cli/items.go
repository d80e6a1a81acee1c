package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
	"github.com/idilsaglam/grocery/internal/ui"
)

func addAdd(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "add <label...>",
		Short: "Add an item; the label may be several words.",
		Example: `
grocery add Milk
grocery add oat milk
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.TrimSpace(strings.Join(args, " "))
			if label == "" {
				return usagef("add: empty label")
			}
			return mutate(cmd, e, func(ctx context.Context, s *store.Store) (string, model.Op, error) {
				op, _ := s.Add(ctx, label)
				return fmt.Sprintf("added #%d %s", op.ItemID, label), op, nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addCheck(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "check <id>",
		Short: "Toggle the checked mark of an item.",
		Example: `
grocery check 2
`,
		Args: idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := strconv.Atoi(args[0])
			return mutate(cmd, e, func(ctx context.Context, s *store.Store) (string, model.Op, error) {
				op, ok := s.Toggle(ctx, id)
				if !ok {
					return "", op, missing(s, id)
				}
				it, _ := find(s, id)
				verb := "unchecked"
				if it.Checked {
					verb = "checked"
				}
				return fmt.Sprintf("%s #%d %s", verb, id, it.Label), op, nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addRm(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an item.",
		Example: `
grocery rm 3
`,
		Args: idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := strconv.Atoi(args[0])
			return mutate(cmd, e, func(ctx context.Context, s *store.Store) (string, model.Op, error) {
				it, found := find(s, id)
				if !found {
					return "", model.Op{}, missing(s, id)
				}
				op, _ := s.Remove(ctx, id)
				return fmt.Sprintf("removed #%d %s", id, it.Label), op, nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}

// mutate loads the list, runs one change and reports how the write went.
func mutate(cmd *cobra.Command, e *env, change func(context.Context, *store.Store) (string, model.Op, error)) error {
	log, closeLog, err := e.logger(nil)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := e.store(log)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := initialize(ctx, s); err != nil {
		return err
	}

	msg, op, err := change(ctx, s)
	if err != nil {
		return err
	}
	if op.Failed() {
		return fmt.Errorf("%s: %s", op.Kind, op.Err)
	}
	ui.OK(cmd.OutOrStdout(), msg)
	return nil
}

func find(s *store.Store, id int) (model.Item, bool) {
	for _, it := range s.State().Items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

func missing(s *store.Store, id int) error {
	ids := make([]string, 0)
	for _, it := range s.State().Items {
		ids = append(ids, strconv.Itoa(it.ID))
	}
	if len(ids) == 0 {
		return usagef("no item #%d, the list is empty", id)
	}
	return usagef("no item #%d, have %s (run `grocery ls`)", id, strings.Join(ids, ", "))
}

func idArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usagef("usage: grocery %s", cmd.Use)
	}
	if n, err := strconv.Atoi(args[0]); err != nil || n < 1 {
		return usagef("%s: not an item id: %s", cmd.Name(), args[0])
	}
	return nil
}
