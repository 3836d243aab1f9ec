package domain

import (
	"errors"
	"fmt"
)

// errors.Is で判定するための分類用エラーです。
var (
	ErrValidation       = errors.New("validation error")
	ErrIncompleteData   = errors.New("incomplete story data")
	ErrStoryGeneration  = errors.New("story generation failed")
	ErrIllustration     = errors.New("illustration generation failed")
	ErrPersistence      = errors.New("story persistence failed")
	ErrBusy             = errors.New("a generation run is already in progress")
	ErrSlotOutOfRange   = errors.New("image slot out of range")
	ErrInvalidImageSlot = errors.New("invalid image slot")
)

// ValidationError はローカル入力の不備を表します。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IncompleteDataError はキャラクター未指定のまま生成が呼ばれたことを表します。
type IncompleteDataError struct {
	Message string
}

func (e *IncompleteDataError) Error() string {
	if e.Message == "" {
		return "Dados da história incompletos."
	}
	return e.Message
}

func (e *IncompleteDataError) Unwrap() error { return ErrIncompleteData }

// StoryGenerationError は物語テキスト生成の失敗です。実行全体が終了します。
type StoryGenerationError struct {
	StatusCode int
	Detail     string
	Err        error
}

// DefaultStoryFailureMessage はサーバーが detail を返さなかった場合のメッセージです。
const DefaultStoryFailureMessage = "Falha ao gerar história"

func (e *StoryGenerationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", DefaultStoryFailureMessage, e.Err)
	}
	return DefaultStoryFailureMessage
}

func (e *StoryGenerationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrStoryGeneration, e.Err}
	}
	return []error{ErrStoryGeneration}
}

// IllustrationError は1枚分の画像生成の失敗です。
// 自動生成中はプレースホルダーに置き換えられ、実行は継続します。
type IllustrationError struct {
	Slot       ImageSlot
	StatusCode int
	Detail     string
	Err        error
}

func (e *IllustrationError) Error() string {
	msg := "Falha na geração de imagem"
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", msg, e.Slot.Descriptor(), e.Err)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Slot.Descriptor())
}

func (e *IllustrationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrIllustration, e.Err}
	}
	return []error{ErrIllustration}
}

// PersistenceError は保存エンドポイントの失敗です。ログに残すだけで利用者には見せません。
type PersistenceError struct {
	StatusCode int
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Falha ao salvar história no backend: %v", e.Err)
	}
	return fmt.Sprintf("Falha ao salvar história no backend (status %d)", e.StatusCode)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrPersistence, e.Err}
	}
	return []error{ErrPersistence}
}
