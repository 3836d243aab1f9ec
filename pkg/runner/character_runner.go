package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/store"
)

// PhotoResolver は写真の参照を所有するバイト列に変換します。
type PhotoResolver interface {
	ResolveAll(ctx context.Context, refs []string) ([]domain.Photo, error)
}

// CharacterRunner はキャラクターのロスターを操作します。
type CharacterRunner struct {
	store    *store.CharacterStore
	resolver PhotoResolver
}

// NewCharacterRunner は CharacterRunner を初期化します。
func NewCharacterRunner(s *store.CharacterStore, resolver PhotoResolver) *CharacterRunner {
	return &CharacterRunner{store: s, resolver: resolver}
}

// Add は写真の参照を読み込んでからキャラクターを登録します。
// 写真はこの時点でバイト列として取り込まれ、以後は元のファイルや URL に依存しません。
func (r *CharacterRunner) Add(ctx context.Context, nickname string, photoRefs []string) (domain.Character, error) {
	photos, err := r.resolver.ResolveAll(ctx, photoRefs)
	if err != nil {
		return domain.Character{}, fmt.Errorf("参照写真の読み込みに失敗しました: %w", err)
	}
	ch, err := r.store.AddCharacter(nickname, photos)
	if err != nil {
		return domain.Character{}, err
	}
	slog.Info("キャラクターを登録しました", "id", ch.ID, "nickname", ch.Nickname, "photos", len(ch.Photos))
	return ch, nil
}

// List は登録済みのキャラクターと、アクティブなキャラクターの ID を返します。
func (r *CharacterRunner) List() ([]domain.Character, string) {
	active := ""
	if ch, ok := r.store.ActiveCharacter(); ok {
		active = ch.ID
	}
	return r.store.Characters(), active
}

// Select はアクティブなキャラクターを切り替えます。
func (r *CharacterRunner) Select(id string) (domain.Character, error) {
	ch, ok := r.store.Character(id)
	if !ok {
		return domain.Character{}, fmt.Errorf("キャラクターが見つかりません: %s", id)
	}
	r.store.SelectCharacter(id)
	return ch, nil
}

// Delete はキャラクターを削除します。存在しない ID は何もしません。
func (r *CharacterRunner) Delete(id string) bool {
	_, existed := r.store.Character(id)
	r.store.DeleteCharacter(id)
	if existed {
		slog.Info("キャラクターを削除しました", "id", id)
	}
	return existed
}
