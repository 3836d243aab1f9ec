// Package store はキャラクターのロスターを永続化するキー・バリューストアとその上の CharacterStore を提供します。
package store

import (
	"context"
	"errors"
)

// ErrNotFound はキーが存在しないことを表します。
var ErrNotFound = errors.New("store: key not found")

// 永続化に使う固定キーです。最後の書き込みが勝つ単純なエントリで、バージョン管理はしません。
const (
	CharactersKey      = "imaginaria_characters"
	ActiveCharacterKey = "imaginaria_active_character"
)

// KeyValue はバックエンドごとの差異を吸収するインターフェースです。
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
