package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxPhotos はキャラクター1人あたりに登録できる参照写真の上限です。
const MaxPhotos = 3

// Photo は参照写真の実体です。
// 一時的な参照（パスや URL）ではなく、作成時点で取り込んだバイト列を所有します。
type Photo struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Character は複数の物語で使い回せる主人公のプロフィールです。
// 作成後は変更されず、削除と再作成でのみ入れ替わります。
type Character struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Photos    []Photo   `json:"photos"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCharacter は入力を検証したうえで Character を生成します。
// ニックネームが空、または写真が MaxPhotos を超える場合は *ValidationError を返します。
func NewCharacter(id, nickname string, photos []Photo, createdAt time.Time) (Character, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return Character{}, &ValidationError{Field: "nickname", Message: "nickname must not be empty"}
	}
	if len(photos) > MaxPhotos {
		return Character{}, &ValidationError{
			Field:   "photos",
			Message: fmt.Sprintf("at most %d photos are allowed, got %d", MaxPhotos, len(photos)),
		}
	}
	for i, p := range photos {
		if len(p.Data) == 0 {
			return Character{}, &ValidationError{Field: "photos", Message: fmt.Sprintf("photo %d is empty", i+1)}
		}
	}

	c := Character{
		ID:        id,
		Nickname:  nickname,
		CreatedAt: createdAt,
	}
	c.Photos = clonePhotos(photos)
	return c, nil
}

// Clone は写真のバイト列まで含めたディープコピーを返します。
// 生成処理には常にこのスナップショットを渡します。
func (c Character) Clone() Character {
	c.Photos = clonePhotos(c.Photos)
	return c
}

// String はキャラクターの情報を文字列で返します。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Nickname, c.ID)
}

func clonePhotos(src []Photo) []Photo {
	if src == nil {
		return nil
	}
	dst := make([]Photo, len(src))
	for i, p := range src {
		dst[i] = Photo{
			Name:     p.Name,
			MimeType: p.MimeType,
			Data:     append([]byte(nil), p.Data...),
		}
	}
	return dst
}
