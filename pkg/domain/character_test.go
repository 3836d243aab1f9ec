package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPhoto(b byte) Photo {
	return Photo{Name: "ref.jpg", MimeType: "image/jpeg", Data: []byte{0xff, 0xd8, b}}
}

func TestNewCharacter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("写真0〜3枚なら作成できること", func(t *testing.T) {
		for n := 0; n <= MaxPhotos; n++ {
			photos := make([]Photo, n)
			for i := range photos {
				photos[i] = testPhoto(byte(i))
			}
			c, err := NewCharacter("id-1", "  Luna ", photos, now)
			require.NoError(t, err)
			assert.Equal(t, "Luna", c.Nickname)
			assert.Equal(t, now, c.CreatedAt)
			assert.Len(t, c.Photos, n)
		}
	})

	t.Run("ニックネームが空ならValidationError", func(t *testing.T) {
		_, err := NewCharacter("id-1", "   ", nil, now)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "nickname", vErr.Field)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("写真4枚ならValidationError", func(t *testing.T) {
		photos := []Photo{testPhoto(1), testPhoto(2), testPhoto(3), testPhoto(4)}
		_, err := NewCharacter("id-1", "Luna", photos, now)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "photos", vErr.Field)
	})

	t.Run("空の写真は拒否されること", func(t *testing.T) {
		_, err := NewCharacter("id-1", "Luna", []Photo{{Name: "x"}}, now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("入力スライスの変更が影響しないこと", func(t *testing.T) {
		photos := []Photo{testPhoto(9)}
		c, err := NewCharacter("id-1", "Luna", photos, now)
		require.NoError(t, err)
		photos[0].Data[2] = 0
		assert.Equal(t, byte(9), c.Photos[0].Data[2])
	})
}

func TestCharacter_Clone(t *testing.T) {
	c := Character{ID: "a", Nickname: "Luna", Photos: []Photo{testPhoto(7)}}
	clone := c.Clone()
	clone.Photos[0].Data[2] = 1
	clone.Photos[0].Name = "changed"

	assert.Equal(t, byte(7), c.Photos[0].Data[2])
	assert.Equal(t, "ref.jpg", c.Photos[0].Name)
}

func TestCharacter_String(t *testing.T) {
	c := Character{ID: "test-id", Nickname: "Luna"}
	assert.Equal(t, "Luna (test-id)", c.String())
}

func TestStoryConfig_Validate(t *testing.T) {
	err := StoryConfig{Universe: "marvel"}.Validate()
	assert.ErrorIs(t, err, ErrIncompleteData)

	ch := Character{ID: "a", Nickname: "Luna"}
	assert.NoError(t, StoryConfig{Character: &ch}.Validate())
}

func TestStoryConfig_Snapshot(t *testing.T) {
	ch := Character{ID: "a", Nickname: "Luna", Photos: []Photo{testPhoto(1)}}
	cfg := StoryConfig{Character: &ch}
	snap := cfg.Snapshot()

	ch.Nickname = "Sol"
	ch.Photos[0].Data[2] = 42

	assert.Equal(t, "Luna", snap.Character.Nickname)
	assert.Equal(t, byte(1), snap.Character.Photos[0].Data[2])
}
