package domain

import (
	"encoding/json"
	"fmt"
)

// StoryConfig は1回の生成リクエストを定義する選択内容です。
// Character は投入時点のスナップショットで、以後のロスター変更の影響を受けません。
type StoryConfig struct {
	Universe    string     `json:"universe"`
	Style       string     `json:"style"`
	Genre       string     `json:"genre"`
	Description string     `json:"description,omitempty"`
	Character   *Character `json:"character,omitempty"`
}

// Validate は生成開始に必要なデータが揃っているかを確認します。
func (c StoryConfig) Validate() error {
	if c.Character == nil {
		return &IncompleteDataError{}
	}
	return nil
}

// Snapshot は Character をディープコピーした StoryConfig を返します。
func (c StoryConfig) Snapshot() StoryConfig {
	if c.Character != nil {
		ch := c.Character.Clone()
		c.Character = &ch
	}
	return c
}

// Part は章本文と挿絵プロンプトの組です。
// ワイヤ上では [text, image_prompt] の2要素配列として表現されます。
type Part struct {
	Text        string
	ImagePrompt string
}

// MarshalJSON は Part を2要素配列として出力します。
func (p Part) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Text, p.ImagePrompt})
}

// UnmarshalJSON は2要素の文字列配列のみを受け付けます。
func (p *Part) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("part must be a [text, image_prompt] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("part must have exactly 2 elements, got %d", len(pair))
	}
	p.Text, p.ImagePrompt = pair[0], pair[1]
	return nil
}

// GeneratedStory は /api/generate-story が返す data 部分です。
type GeneratedStory struct {
	Title       string `json:"title"`
	CoverPrompt string `json:"cover_prompt"`
	Parts       []Part `json:"parts"`
}

// Validate はレスポンスのスキーマを検証します。
func (s GeneratedStory) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("missing title")
	}
	if len(s.Parts) == 0 {
		return fmt.Errorf("story has no parts")
	}
	for i, p := range s.Parts {
		if p.Text == "" {
			return fmt.Errorf("part %d has empty text", i+1)
		}
	}
	return nil
}

// Chapter は Parts と同じ位置の章に対応する解決済みの挿絵 URL です。
type Chapter struct {
	ImageURL string `json:"image_url"`
}

// StoryDocument は完成した物語の正規化されたモデルです。
// Chapters[i] は常に Parts[i] に対応します。
type StoryDocument struct {
	Title       string    `json:"title"`
	CoverImage  string    `json:"cover_image"`
	CoverPrompt string    `json:"cover_prompt,omitempty"`
	Parts       []Part    `json:"parts"`
	Chapters    []Chapter `json:"chapters"`
}

// NewStoryDocument は生成結果と画像参照から StoryDocument を組み立てます。
func NewStoryDocument(story GeneratedStory, coverImage string, chapterImages []string) (*StoryDocument, error) {
	if len(chapterImages) != len(story.Parts) {
		return nil, fmt.Errorf("chapter images (%d) do not match parts (%d)", len(chapterImages), len(story.Parts))
	}
	doc := &StoryDocument{
		Title:       story.Title,
		CoverImage:  coverImage,
		CoverPrompt: story.CoverPrompt,
		Parts:       append([]Part(nil), story.Parts...),
		Chapters:    make([]Chapter, len(chapterImages)),
	}
	for i, url := range chapterImages {
		doc.Chapters[i] = Chapter{ImageURL: url}
	}
	return doc, nil
}

// Validate は Chapters と Parts の対応を検証します。
func (d *StoryDocument) Validate() error {
	if len(d.Chapters) != len(d.Parts) {
		return fmt.Errorf("chapters (%d) and parts (%d) length mismatch", len(d.Chapters), len(d.Parts))
	}
	return nil
}

// Image はスロットに対応する画像参照を返します。
func (d *StoryDocument) Image(slot ImageSlot) (string, error) {
	if slot.IsCover() {
		return d.CoverImage, nil
	}
	i, _ := slot.Index()
	if i < 0 || i >= len(d.Chapters) {
		return "", fmt.Errorf("%w: %s", ErrSlotOutOfRange, slot)
	}
	return d.Chapters[i].ImageURL, nil
}

// Prompt はスロットに対応する挿絵プロンプトを返します。
func (d *StoryDocument) Prompt(slot ImageSlot) (string, error) {
	if slot.IsCover() {
		return d.CoverPrompt, nil
	}
	i, _ := slot.Index()
	if i < 0 || i >= len(d.Parts) {
		return "", fmt.Errorf("%w: %s", ErrSlotOutOfRange, slot)
	}
	return d.Parts[i].ImagePrompt, nil
}

// SetImage は1枚分の画像参照をその場で差し替えます。
func (d *StoryDocument) SetImage(slot ImageSlot, url string) error {
	if slot.IsCover() {
		d.CoverImage = url
		return nil
	}
	i, _ := slot.Index()
	if i < 0 || i >= len(d.Chapters) {
		return fmt.Errorf("%w: %s", ErrSlotOutOfRange, slot)
	}
	d.Chapters[i].ImageURL = url
	return nil
}

// Clone はドキュメントのコピーを返します。
func (d *StoryDocument) Clone() *StoryDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.Parts = append([]Part(nil), d.Parts...)
	c.Chapters = append([]Chapter(nil), d.Chapters...)
	return &c
}

// SavedChapter は保存ペイロード内の1章です。
type SavedChapter struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

// SavePayload は /api/save-story に送る JSON です。
type SavePayload struct {
	Title         string         `json:"title"`
	CoverImageURL string         `json:"cover_image_url"`
	Chapters      []SavedChapter `json:"chapters"`
}

// SavePayload は章本文 (Parts[i].Text) と画像 URL (Chapters[i].ImageURL) を位置で対応付けます。
func (d *StoryDocument) SavePayload() (SavePayload, error) {
	if err := d.Validate(); err != nil {
		return SavePayload{}, err
	}
	payload := SavePayload{
		Title:         d.Title,
		CoverImageURL: d.CoverImage,
		Chapters:      make([]SavedChapter, len(d.Parts)),
	}
	for i, p := range d.Parts {
		payload.Chapters[i] = SavedChapter{Text: p.Text, ImageURL: d.Chapters[i].ImageURL}
	}
	return payload, nil
}
