package generator

import (
	"sync"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// 進捗ログの文言です。
const (
	LogStarting             = "Iniciando motor criativo..."
	LogConnecting           = "Conectando ao núcleo de imaginação..."
	LogProcessingProfile    = "Processando perfil do herói..."
	LogSendingToOracle      = "Enviando dados para o oráculo (Gemini)..."
	LogStoryWritten         = "História escrita com sucesso!"
	LogIllustrationsStarted = "Iniciando geração das ilustrações..."
	LogFinished             = "Livro finalizado com ilustrações!"
	LogSaved                = "Salvo no grimório."
	LogSaveFailed           = "Não foi possível salvar no grimório."
)

// PaintingLog は1枚分の挿絵生成を開始したときのログです。
func PaintingLog(descriptor string) string { return "Pintando: " + descriptor + "..." }

// ErrorLog は実行が失敗したときのログです。
func ErrorLog(msg string) string { return "Erro: " + msg }

// Snapshot は State のある時点のコピーです。
type Snapshot struct {
	IsLoading bool
	Logs      []string
	Error     string
	Result    *domain.StoryDocument
}

// Done は実行が成功か失敗のどちらかで終わっているかを返します。
func (s Snapshot) Done() bool {
	return !s.IsLoading && (s.Result != nil || s.Error != "")
}

// State は生成実行の状態を保持します。書き込むのは Orchestrator だけで、
// 変更はすべて丸ごとの置き換えか追記で行われます。
type State struct {
	mu  sync.Mutex
	cur Snapshot
	// source は直近の実行が呼び出し側に返したドキュメントです。cur.Result はその複製です。
	source *domain.StoryDocument
	subs   map[int]func(Snapshot)
	nextID int
}

// NewState は空の State を返します。
func NewState() *State {
	return &State{subs: make(map[int]func(Snapshot))}
}

// Snapshot は現在の状態のコピーを返します。
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Subscribe は状態が変わるたびに呼ばれる関数を登録し、解除関数を返します。
// fn は変更を行ったゴルーチン上で同期的に呼ばれます。
func (s *State) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// begin は新しい実行のためにログ・結果・エラーをリセットします。
func (s *State) begin(lines ...string) {
	s.update(func(cur *Snapshot) {
		cur.IsLoading = true
		cur.Error = ""
		cur.Result = nil
		s.source = nil
		cur.Logs = append([]string(nil), lines...)
	})
}

func (s *State) appendLog(lines ...string) {
	s.update(func(cur *Snapshot) {
		cur.Logs = append(cur.Logs, lines...)
	})
}

func (s *State) succeed(doc *domain.StoryDocument, lines ...string) {
	s.update(func(cur *Snapshot) {
		cur.IsLoading = false
		cur.Error = ""
		cur.Result = doc.Clone()
		s.source = doc
		cur.Logs = append(cur.Logs, lines...)
	})
}

func (s *State) fail(msg string) {
	s.update(func(cur *Snapshot) {
		cur.IsLoading = false
		cur.Error = msg
		cur.Result = nil
		s.source = nil
		cur.Logs = append(cur.Logs, ErrorLog(msg))
	})
}

// reject は実行を始めずに終わらせます。直前の実行のログは残します。
func (s *State) reject(msg string) {
	s.update(func(cur *Snapshot) {
		cur.IsLoading = false
		cur.Error = msg
		cur.Result = nil
		s.source = nil
	})
}

// setImage は doc の画像参照を差し替えます。doc が直近の実行の結果であれば、
// State が保持する複製も同じように差し替えます。
func (s *State) setImage(doc *domain.StoryDocument, slot domain.ImageSlot, url string) error {
	var err error
	s.update(func(cur *Snapshot) {
		if err = doc.SetImage(slot, url); err != nil {
			return
		}
		if doc == s.source && cur.Result != nil {
			err = cur.Result.SetImage(slot, url)
		}
	})
	return err
}

func (s *State) update(fn func(cur *Snapshot)) {
	s.mu.Lock()
	fn(&s.cur)
	snap := s.copyLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func (s *State) copyLocked() Snapshot {
	c := s.cur
	c.Logs = append([]string(nil), s.cur.Logs...)
	c.Result = s.cur.Result.Clone()
	return c
}
