package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CoverDescriptor は表紙画像の記述子です。
const CoverDescriptor = "Capa do Livro"

const coverKey = "cover"

// ImageSlot は画像の格納先を表すタグ付きの値です。表紙か、章のインデックスのどちらかです。
type ImageSlot struct {
	chapter bool
	index   int
}

// CoverSlot は表紙のスロットを返します。
func CoverSlot() ImageSlot { return ImageSlot{} }

// ChapterSlot は i 番目 (0始まり) の章のスロットを返します。
func ChapterSlot(i int) ImageSlot { return ImageSlot{chapter: true, index: i} }

func (s ImageSlot) IsCover() bool { return !s.chapter }

// Index は章スロットのインデックスを返します。表紙の場合は false です。
func (s ImageSlot) Index() (int, bool) {
	if !s.chapter {
		return 0, false
	}
	return s.index, true
}

// Descriptor はログやプレースホルダーに使う人間向けの名前です。
func (s ImageSlot) Descriptor() string {
	if !s.chapter {
		return CoverDescriptor
	}
	return fmt.Sprintf("Cena %d", s.index+1)
}

// String は "cover" または 0 始まりのインデックスを返します。
func (s ImageSlot) String() string {
	if !s.chapter {
		return coverKey
	}
	return strconv.Itoa(s.index)
}

// ParseImageSlot は "cover" または 0 始まりのインデックス文字列を解釈します。
func ParseImageSlot(raw string) (ImageSlot, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, coverKey) {
		return CoverSlot(), nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return ImageSlot{}, fmt.Errorf("%w: %q", ErrInvalidImageSlot, raw)
	}
	return ChapterSlot(i), nil
}
