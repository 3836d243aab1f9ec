package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedStory_Decode(t *testing.T) {
	t.Run("partsを[text, prompt]の組として読めること", func(t *testing.T) {
		raw := `{"title":"A Jornada","cover_prompt":"capa","parts":[["Era uma vez","floresta"],["Fim","castelo"]]}`
		var s GeneratedStory
		require.NoError(t, json.Unmarshal([]byte(raw), &s))
		require.NoError(t, s.Validate())
		assert.Equal(t, "A Jornada", s.Title)
		require.Len(t, s.Parts, 2)
		assert.Equal(t, Part{Text: "Fim", ImagePrompt: "castelo"}, s.Parts[1])
	})

	t.Run("要素数が2でないpartは拒否されること", func(t *testing.T) {
		var s GeneratedStory
		err := json.Unmarshal([]byte(`{"title":"x","parts":[["só texto"]]}`), &s)
		assert.Error(t, err)
	})

	t.Run("タイトルやpartsが欠けていれば検証エラー", func(t *testing.T) {
		assert.Error(t, GeneratedStory{Parts: []Part{{Text: "a"}}}.Validate())
		assert.Error(t, GeneratedStory{Title: "x"}.Validate())
	})
}

func TestPart_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Part{Text: "t", ImagePrompt: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `["t","p"]`, string(b))
}

func TestStoryDocument(t *testing.T) {
	story := GeneratedStory{
		Title:       "Livro",
		CoverPrompt: "capa",
		Parts:       []Part{{"um", "p1"}, {"dois", "p2"}, {"três", "p3"}},
	}

	t.Run("画像数とparts数が一致しなければエラー", func(t *testing.T) {
		_, err := NewStoryDocument(story, "cover.png", []string{"a"})
		assert.Error(t, err)
	})

	doc, err := NewStoryDocument(story, "cover.png", []string{"a.png", "b.png", "c.png"})
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	t.Run("SetImageで1枚だけ差し替わること", func(t *testing.T) {
		d := doc.Clone()
		require.NoError(t, d.SetImage(ChapterSlot(1), "new.png"))
		require.NoError(t, d.SetImage(CoverSlot(), "newcover.png"))
		assert.Equal(t, []Chapter{{"a.png"}, {"new.png"}, {"c.png"}}, d.Chapters)
		assert.Equal(t, "newcover.png", d.CoverImage)
		assert.Equal(t, "b.png", doc.Chapters[1].ImageURL)

		assert.ErrorIs(t, d.SetImage(ChapterSlot(3), "x"), ErrSlotOutOfRange)
	})

	t.Run("Promptはスロットに応じたプロンプトを返すこと", func(t *testing.T) {
		p, err := doc.Prompt(CoverSlot())
		require.NoError(t, err)
		assert.Equal(t, "capa", p)
		p, err = doc.Prompt(ChapterSlot(2))
		require.NoError(t, err)
		assert.Equal(t, "p3", p)
	})

	t.Run("SavePayloadは位置で本文と画像を対応付けること", func(t *testing.T) {
		payload, err := doc.SavePayload()
		require.NoError(t, err)
		assert.Equal(t, "Livro", payload.Title)
		assert.Equal(t, "cover.png", payload.CoverImageURL)
		assert.Equal(t, []SavedChapter{
			{Text: "um", ImageURL: "a.png"},
			{Text: "dois", ImageURL: "b.png"},
			{Text: "três", ImageURL: "c.png"},
		}, payload.Chapters)

		b, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Livro","cover_image_url":"cover.png","chapters":[
			{"text":"um","image_url":"a.png"},{"text":"dois","image_url":"b.png"},{"text":"três","image_url":"c.png"}]}`, string(b))
	})

	t.Run("対応が崩れたドキュメントは保存できないこと", func(t *testing.T) {
		d := doc.Clone()
		d.Chapters = d.Chapters[:1]
		_, err := d.SavePayload()
		assert.Error(t, err)
	})
}

func TestImageSlot(t *testing.T) {
	assert.Equal(t, "Capa do Livro", CoverSlot().Descriptor())
	assert.Equal(t, "Cena 3", ChapterSlot(2).Descriptor())

	s, err := ParseImageSlot("cover")
	require.NoError(t, err)
	assert.True(t, s.IsCover())

	s, err = ParseImageSlot("4")
	require.NoError(t, err)
	i, ok := s.Index()
	assert.True(t, ok)
	assert.Equal(t, 4, i)
	assert.Equal(t, "4", s.String())

	_, err = ParseImageSlot("-1")
	assert.ErrorIs(t, err, ErrInvalidImageSlot)
	_, err = ParseImageSlot("capa")
	assert.ErrorIs(t, err, ErrInvalidImageSlot)
}

func TestPlaceholderImageURL(t *testing.T) {
	u := PlaceholderImageURL("Cena 3")
	assert.Equal(t, "https://placehold.co/600x400/e3dccb/2a1a10?text=Erro:+Cena%203", u)
	assert.True(t, IsPlaceholder(u))

	d, ok := PlaceholderDescriptor(u)
	require.True(t, ok)
	assert.Equal(t, "Cena 3", d)

	d, ok = PlaceholderDescriptor(PlaceholderImageURL(CoverDescriptor))
	require.True(t, ok)
	assert.Equal(t, "Capa do Livro", d)

	_, ok = PlaceholderDescriptor("/images/abc.png")
	assert.False(t, ok)
}

func TestStoryDetail_Document(t *testing.T) {
	detail := StoryDetail{
		Title: "Antiga",
		Cover: "/stories/1/cover.png",
		Chapters: []StoredChapter{
			{Text: "um", Image: "/stories/1/a.png"},
			{Text: "dois", ImageURL: "/stories/1/b.png", Prompt: "p2"},
		},
	}
	doc := detail.Document()
	require.NoError(t, doc.Validate())
	assert.Equal(t, "/stories/1/cover.png", doc.CoverImage)
	assert.Equal(t, "/stories/1/a.png", doc.Chapters[0].ImageURL)
	assert.Equal(t, Part{Text: "dois", ImagePrompt: "p2"}, doc.Parts[1])
}

func TestValidateSelection(t *testing.T) {
	assert.NoError(t, ValidateSelection("marvel", "anime", "epic"))

	err := ValidateSelection("narnia", "anime", "epic")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "universe", vErr.Field)
}
