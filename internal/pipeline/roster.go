package pipeline

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// ExecuteCharacterAdd は参照写真を取り込んでキャラクターを登録するのだ。
func ExecuteCharacterAdd(ctx context.Context, cfg *config.Config, out io.Writer) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	characterRunner, err := m.BuildCharacterRunner()
	if err != nil {
		return fmt.Errorf("CharacterRunnerの構築に失敗したのだ: %w", err)
	}
	ch, err := characterRunner.Add(ctx, cfg.Options.Nickname, cfg.Options.Photos)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", activeStyle.Render("*"), ch)
	return nil
}

// ExecuteCharacterList は登録済みのキャラクターを一覧表示するのだ。
func ExecuteCharacterList(ctx context.Context, cfg *config.Config, out io.Writer) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	characterRunner, err := m.BuildCharacterRunner()
	if err != nil {
		return fmt.Errorf("CharacterRunnerの構築に失敗したのだ: %w", err)
	}
	characters, active := characterRunner.List()
	if len(characters) == 0 {
		fmt.Fprintln(out, "キャラクターはまだいないのだ。")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tNICKNAME\tPHOTOS\tCREATED")
	for _, ch := range characters {
		mark := " "
		if ch.ID == active {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", mark, ch.ID, ch.Nickname, len(ch.Photos), ch.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// ExecuteCharacterSelect はアクティブなキャラクターを切り替えるのだ。
func ExecuteCharacterSelect(ctx context.Context, cfg *config.Config, out io.Writer) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	characterRunner, err := m.BuildCharacterRunner()
	if err != nil {
		return fmt.Errorf("CharacterRunnerの構築に失敗したのだ: %w", err)
	}
	ch, err := characterRunner.Select(cfg.Options.CharacterID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", activeStyle.Render("*"), ch)
	return nil
}

// ExecuteCharacterDelete はキャラクターを削除するのだ。いない ID でもエラーにはしないのだよ。
func ExecuteCharacterDelete(ctx context.Context, cfg *config.Config, out io.Writer) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	characterRunner, err := m.BuildCharacterRunner()
	if err != nil {
		return fmt.Errorf("CharacterRunnerの構築に失敗したのだ: %w", err)
	}
	if !characterRunner.Delete(cfg.Options.CharacterID) {
		fmt.Fprintf(out, "キャラクター %s はいなかったのだ。\n", cfg.Options.CharacterID)
	}
	return nil
}

// ExecuteLibraryList は保存済みの物語を一覧表示するのだ。
func ExecuteLibraryList(ctx context.Context, cfg *config.Config, out io.Writer) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	libraryRunner, err := m.BuildLibraryRunner()
	if err != nil {
		return fmt.Errorf("LibraryRunnerの構築に失敗したのだ: %w", err)
	}
	stories, err := libraryRunner.List(ctx)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		fmt.Fprintln(out, "保存された物語はまだないのだ。")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOVER")
	for _, s := range stories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Title, m.Client().ResolveURL(s.Cover))
	}
	return tw.Flush()
}

// ExecuteLibraryShow は保存済みの物語を取得して、story.md と story.json に書き出すのだ。
func ExecuteLibraryShow(ctx context.Context, cfg *config.Config, out io.Writer) error {
	m, err := setupManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	libraryRunner, err := m.BuildLibraryRunner()
	if err != nil {
		return fmt.Errorf("LibraryRunnerの構築に失敗したのだ: %w", err)
	}
	doc, err := libraryRunner.Show(ctx, cfg.Options.StoryID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%d capítulos)\n", doc.Title, len(doc.Parts))
	if cfg.Options.NoPublish {
		return nil
	}
	return publish(ctx, m, doc)
}

// ExecuteCatalog は選べる世界観・画風・ジャンルを表示するのだ。
func ExecuteCatalog(out io.Writer) error {
	sections := []struct {
		title   string
		catalog domain.Catalog
	}{
		{"UNIVERSES (--universe)", domain.Universes},
		{"STYLES (--style)", domain.Styles},
		{"GENRES (--genre)", domain.Genres},
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, headerStyle.Render(sec.title))
		for _, e := range sec.catalog {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.ID, e.Label, e.Description)
		}
	}
	return tw.Flush()
}
