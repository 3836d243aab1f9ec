package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/pipeline"
)

// regenerateCmd は、書き出し済みの物語から挿絵を1枚だけ作り直すのだ。
var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "書き出し済みの物語の挿絵を1枚だけ作り直すのだ。",
	Long: `--slot には cover か 0 始まりの章番号を指定するのだ。
作り直した結果は story.md と story.json に書き戻されるのだよ。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteRegenerate(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

// saveCmd は、書き出し済みの物語をバックエンドのライブラリに保存するのだ。
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "書き出し済みの物語をライブラリに保存するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteSave(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

// readCmd は、物語をターミナルのリーダーで開くのだ。
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "物語をページ送りで読むのだ。",
	Long: `--id を指定するとライブラリから、指定しなければ --story のファイルから読み込むのだ。
← → でページをめくって、q で閉じるのだよ。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteRead(cmd.Context(), cfg)
	},
}

func init() {
	addStoryFlags(regenerateCmd)
	regenerateCmd.Flags().StringVar(&cfg.Options.Slot, "slot", "cover", "作り直す挿絵なのだ（cover または章番号）。")
	regenerateCmd.Flags().BoolVar(&cfg.Options.NoPublish, "no-publish", false, "ファイルへの書き戻しをしないのだ。")

	for _, c := range []*cobra.Command{regenerateCmd, saveCmd, readCmd} {
		c.Flags().StringVarP(&cfg.Options.StoryFile, "story", "f", config.DefaultStoryFile, "読み込む story.json のパスなのだ。")
	}
	readCmd.Flags().StringVar(&cfg.Options.StoryID, "id", "", "ライブラリに保存された物語の ID なのだ。")
}
