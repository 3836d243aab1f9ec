package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	"github.com/shouni/go-storybook-kit/internal/config"
)

// cfg は環境変数とフラグを合わせた実行時の設定なのだ。
var cfg = config.LoadConfig()

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- バックエンド ---
	rootCmd.PersistentFlags().StringVar(&cfg.Kit.BaseURL, "api-url", cfg.Kit.BaseURL, "物語と挿絵を生成するバックエンドのURLなのだ。")
	rootCmd.PersistentFlags().DurationVar(&cfg.Kit.RequestTimeout, "http-timeout", cfg.Kit.RequestTimeout, "1リクエストあたりのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&cfg.Kit.RateInterval, "rate-interval", cfg.Kit.RateInterval, "挿絵リクエストの間隔なのだ（0 で待たないのだ）。")

	// --- キャラクターの保存先 ---
	rootCmd.PersistentFlags().StringVar(&cfg.Kit.StoreBackend, "store", cfg.Kit.StoreBackend, "キャラクターの保存先（file, redis, memory）なのだ。")
	rootCmd.PersistentFlags().StringVar(&cfg.Kit.DataDir, "data-dir", cfg.Kit.DataDir, "file ストアのディレクトリなのだ。")
	rootCmd.PersistentFlags().StringVar(&cfg.Kit.RedisAddr, "redis-addr", cfg.Kit.RedisAddr, "redis ストアの接続先なのだ。")

	// --- 出力 ---
	rootCmd.PersistentFlags().StringVarP(&cfg.Kit.OutputDir, "output-dir", "o", cfg.Kit.OutputDir, "story.md と story.json の出力先なのだ。")
	rootCmd.PersistentFlags().StringVar(&cfg.Options.LogLevel, "log-level", cfg.Options.LogLevel, "ログレベル（debug, info, warn, error）なのだ。")
}

// preRunAppE は、コマンド実行前にロガーと必須の設定を整えるのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Options.LogLevel))); err != nil {
		return fmt.Errorf("ログレベル '%s' は使えないのだ: %w", cfg.Options.LogLevel, err)
	}
	// --verbose は clibase が定義する共通フラグなのだ
	if clibase.Flags.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfg.Kit.BaseURL == "" {
		return fmt.Errorf("エラー: --api-url または環境変数 STORYBOOK_API_URL を設定してほしいのだ")
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"storybook",
		addAppFlags,
		preRunAppE,
		characterCmd,
		generateCmd,
		regenerateCmd,
		saveCmd,
		libraryCmd,
		readCmd,
		catalogCmd,
	)
}
