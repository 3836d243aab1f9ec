package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storybook-kit/internal/pipeline"
)

// generateCmd は、物語テキストと挿絵の生成を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "アクティブなキャラクターで絵本を1冊生成するのだ。",
	Long: `世界観・画風・ジャンルを選んで、物語と表紙・各章の挿絵を生成するのだ。
進捗ログを流しながら生成して、終わったら story.md と story.json に書き出すのだよ。
選べる値は catalog コマンドで確認できるのだ。`,
	RunE: generateCommand,
}

func init() {
	addStoryFlags(generateCmd)
	generateCmd.Flags().StringVar(&cfg.Options.Description, "description", "", "物語に加えたい説明なのだ（省略できるのだ）。")
	generateCmd.Flags().BoolVar(&cfg.Options.NoPublish, "no-publish", false, "ファイルへの書き出しをしないのだ。")
	generateCmd.Flags().BoolVar(&cfg.Options.Read, "read", false, "生成後にそのままリーダーで開くのだ。")
}

// addStoryFlags は物語の選択肢に関するフラグを登録するのだ。
func addStoryFlags(c *cobra.Command) {
	c.Flags().StringVarP(&cfg.Options.Universe, "universe", "u", "", "物語の世界観なのだ。")
	c.Flags().StringVar(&cfg.Options.Style, "style", "", "挿絵の画風なのだ。")
	c.Flags().StringVar(&cfg.Options.Genre, "genre", "", "物語のジャンルなのだ。")
	c.Flags().StringVarP(&cfg.Options.CharacterID, "character", "c", "", "主人公の ID なのだ（省略するとアクティブなキャラクターなのだ）。")
	_ = c.MarkFlagRequired("universe")
	_ = c.MarkFlagRequired("style")
	_ = c.MarkFlagRequired("genre")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	slog.Info("絵本の生成を開始するのだ！",
		"universe", cfg.Options.Universe,
		"style", cfg.Options.Style,
		"genre", cfg.Options.Genre,
		"output", cfg.Kit.OutputDir)

	if err := pipeline.ExecuteGenerate(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("絵本の生成中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
