package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/recipe"
	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/infrastructure/store"
)

var errInvalidFiles = errors.New("one or more files are invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that recipe files parse",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				r, err := codec.ReadFile(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %v\n", err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s: %s\n", path, r.Name)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidFiles, failed, len(args))
			}
			return nil
		},
	}
}

func newFmtCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Re-encode a recipe file in canonical layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := codec.ReadFile(args[0])
			if err != nil {
				return err
			}
			if write {
				return codec.WriteFile(args[0], r)
			}
			return codec.EncodeWriter(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result back to the file")
	return cmd
}

func newShopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shop <file>...",
		Short: "Print the combined shopping list for the given recipes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := loadBook(cmd.Context(), args)
			if err != nil {
				return err
			}
			list, err := book.ShoppingList(book.Names())
			if err != nil {
				return err
			}
			for _, line := range list.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

type filterFlags struct {
	serves int
	max    time.Duration
	tags   []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.serves, "serves", 0, "Exact number of servings (0 = any)")
	cmd.Flags().DurationVar(&f.max, "max", 0, "Maximum total time, e.g. 45m (0 = any)")
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "Required tag (repeatable)")
}

func newFilterCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "filter <file>...",
		Short: "List recipes matching servings, time and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := loadBook(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, r := range book.Filter(f.serves, f.max, f.tags) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d serves\t%d min\n", r.Name, r.Info.Serves, int(r.TotalTime().Minutes()))
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newPickCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "pick <file>...",
		Short: "Pick one matching recipe at random",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := loadBook(cmd.Context(), args)
			if err != nil {
				return err
			}
			name, ok := book.PickOne(f.serves, f.max, f.tags)
			if !ok {
				return errors.New("no recipe matches")
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prefix> <file>...",
		Short: "Suggest tags starting with a prefix",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := loadBook(cmd.Context(), args[1:])
			if err != nil {
				return err
			}
			for _, tag := range book.Suggest(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func newStoredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stored",
		Short: "List recipes in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			book := recipe.NewService(nil, st, nil, nil)
			defer book.Close()

			result, err := book.Load(cmd.Context())
			if err != nil {
				return err
			}
			for i, name := range book.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, name)
			}
			for _, f := range result.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", f.Source, f.Err)
			}
			return nil
		},
	}
}
