package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-storybook-kit/internal/pipeline"
)

// libraryCmd は、バックエンドに保存された物語を扱うのだ。
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "ライブラリに保存された物語を扱うのだ。",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "保存済みの物語を一覧表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteLibraryList(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "保存済みの物語を取得して書き出すのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Options.StoryID = args[0]
		return pipeline.ExecuteLibraryShow(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

// catalogCmd は、選べる世界観・画風・ジャンルを表示するのだ。
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "generate で選べる値を表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteCatalog(cmd.OutOrStdout())
	},
}

func init() {
	libraryShowCmd.Flags().BoolVar(&cfg.Options.NoPublish, "no-publish", false, "ファイルへの書き出しをしないのだ。")
	libraryCmd.AddCommand(libraryListCmd, libraryShowCmd)
}
