// Package cli recipebook 命令列工具
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recipe-book/internal/core/catalog"
	"recipe-book/internal/core/recipe"
	"recipe-book/internal/pkg/common"
)

// NewRootCmd 建立完整的命令樹
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "recipebook",
		Short: "Manage plain-text recipe documents",
		Long: `recipebook validates, formats and queries recipe documents written in the
recipe text format, and builds shopping lists from them.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return common.InitLogger(logLevel, "")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			common.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "warn", "Set log level. Available: debug, info, warn, error")

	root.AddCommand(
		newValidateCmd(),
		newFmtCmd(),
		newShopCmd(),
		newFilterCmd(),
		newPickCmd(),
		newSuggestCmd(),
		newStoredCmd(),
	)
	return root
}

// Execute 由 main 呼叫
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadBook 將檔案依序匯入一個不落地的食譜簿
func loadBook(ctx context.Context, paths []string) (recipe.Book, error) {
	book := recipe.NewService(catalog.New(), nil, nil, nil)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if _, err := book.Import(ctx, string(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return book, nil
}
