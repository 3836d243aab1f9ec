package domain

// StorySummary は /api/stories が返す一覧の1件です。
type StorySummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cover string `json:"cover"`
}

// StoredChapter は保存済み物語の1章です。古い保存形式では image キーが使われています。
type StoredChapter struct {
	Text     string `json:"text"`
	Prompt   string `json:"prompt,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Image    string `json:"image,omitempty"`
}

// StoryDetail は /api/stories/{id} が返す保存済み物語の詳細です。
type StoryDetail struct {
	ID         string          `json:"id,omitempty"`
	Title      string          `json:"title"`
	CoverImage string          `json:"cover_image,omitempty"`
	Cover      string          `json:"cover,omitempty"`
	Nome       string          `json:"nome,omitempty"`
	Chapters   []StoredChapter `json:"chapters"`
}

// Document は保存済みの詳細をリーダーで読める StoryDocument に変換します。
func (s StoryDetail) Document() *StoryDocument {
	doc := &StoryDocument{
		Title:      s.Title,
		CoverImage: firstNonEmpty(s.CoverImage, s.Cover),
		Parts:      make([]Part, len(s.Chapters)),
		Chapters:   make([]Chapter, len(s.Chapters)),
	}
	for i, ch := range s.Chapters {
		doc.Parts[i] = Part{Text: ch.Text, ImagePrompt: ch.Prompt}
		doc.Chapters[i] = Chapter{ImageURL: firstNonEmpty(ch.ImageURL, ch.Image)}
	}
	return doc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
