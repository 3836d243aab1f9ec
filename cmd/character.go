package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storybook-kit/internal/pipeline"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// characterCmd は主人公のロスターを管理するコマンド群なのだ。
var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "物語の主人公を登録・選択・削除するのだ。",
}

var characterAddCmd = &cobra.Command{
	Use:   "add",
	Short: "ニックネームと参照写真（最大3枚）でキャラクターを登録するのだ。",
	Long: `参照写真はローカルパス、http(s) の URL、data URI のどれでも指定できるのだ。
写真は登録時にバイト列として取り込まれるので、あとで元のファイルを消しても大丈夫なのだよ。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Options.Photos) > domain.MaxPhotos {
			return fmt.Errorf("写真は %d 枚までなのだ", domain.MaxPhotos)
		}
		return pipeline.ExecuteCharacterAdd(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

var characterListCmd = &cobra.Command{
	Use:   "list",
	Short: "登録済みのキャラクターを一覧表示するのだ（* がアクティブなのだ）。",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteCharacterList(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

var characterSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "アクティブなキャラクターを切り替えるのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Options.CharacterID = args[0]
		return pipeline.ExecuteCharacterSelect(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

var characterDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "キャラクターを削除するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Options.CharacterID = args[0]
		return pipeline.ExecuteCharacterDelete(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	characterAddCmd.Flags().StringVar(&cfg.Options.Nickname, "name", "", "キャラクターのニックネームなのだ。")
	characterAddCmd.Flags().StringSliceVarP(&cfg.Options.Photos, "photo", "p", nil, "参照写真なのだ（繰り返し指定できるのだ）。")
	_ = characterAddCmd.MarkFlagRequired("name")

	characterCmd.AddCommand(characterAddCmd, characterListCmd, characterSelectCmd, characterDeleteCmd)
}
