// Package reader は完成した物語をめくって読むためのページ送りとターミナル表示を提供します。
package reader

import (
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// CoverPage は表紙を表すページ番号です。
const CoverPage = -1

// PageView は現在のページの表示内容です。
type PageView struct {
	Page       int
	IsCover    bool
	Title      string
	Text       string
	ImageURL   string
	Descriptor string
	// Resolved は画像が表示可能かどうかです。未設定やプレースホルダーの場合は false です。
	Resolved bool
}

// Navigator は表紙 (-1) から最終章 (N-1) までのページ位置を管理します。
// 端での移動は何もしません。
type Navigator struct {
	doc  *domain.StoryDocument
	page int
}

// NewNavigator は表紙を開いた状態の Navigator を返します。
func NewNavigator(doc *domain.StoryDocument) *Navigator {
	if doc == nil {
		doc = &domain.StoryDocument{}
	}
	return &Navigator{doc: doc, page: CoverPage}
}

// Page は現在のページ番号です。
func (n *Navigator) Page() int { return n.page }

// TotalPages は章の数です。
func (n *Navigator) TotalPages() int { return len(n.doc.Parts) }

// Next は次のページに進みます。最終ページでは何もしません。
func (n *Navigator) Next() bool {
	if n.page >= n.TotalPages()-1 {
		return false
	}
	n.page++
	return true
}

// Prev は前のページに戻ります。表紙では何もしません。
func (n *Navigator) Prev() bool {
	if n.page <= CoverPage {
		return false
	}
	n.page--
	return true
}

// First は表紙に戻ります。
func (n *Navigator) First() { n.page = CoverPage }

// Last は最終ページに移動します。
func (n *Navigator) Last() { n.page = n.TotalPages() - 1 }

// Current は現在のページの内容を返します。
func (n *Navigator) Current() PageView {
	if n.page == CoverPage {
		slot := domain.CoverSlot()
		return PageView{
			Page:       CoverPage,
			IsCover:    true,
			Title:      n.doc.Title,
			ImageURL:   n.doc.CoverImage,
			Descriptor: slot.Descriptor(),
			Resolved:   resolved(n.doc.CoverImage),
		}
	}

	slot := domain.ChapterSlot(n.page)
	view := PageView{
		Page:       n.page,
		Title:      n.doc.Title,
		Text:       n.doc.Parts[n.page].Text,
		Descriptor: slot.Descriptor(),
	}
	// Chapters が Parts より短い場合も読めるようにする
	if img, err := n.doc.Image(slot); err == nil {
		view.ImageURL = img
		view.Resolved = resolved(img)
	}
	return view
}

func resolved(imageURL string) bool {
	return imageURL != "" && !domain.IsPlaceholder(imageURL)
}
