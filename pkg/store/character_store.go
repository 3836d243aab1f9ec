package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const defaultPersistTimeout = 5 * time.Second

// CharacterStore はキャラクターのロスターと「アクティブ」なキャラクターを管理します。
// すべての変更は呼び出し側から見て同期的で、変更ごとに KeyValue へ書き込みます。
// 書き込みの失敗はログに残すだけで、呼び出し元には返しません。
type CharacterStore struct {
	mu         sync.RWMutex
	kv         KeyValue
	characters []domain.Character
	active     *domain.Character

	logger         *slog.Logger
	now            func() time.Time
	newID          func() string
	persistTimeout time.Duration
}

// Option は CharacterStore の挙動を調整します。
type Option func(*CharacterStore)

// WithLogger はログ出力先を差し替えます。
func WithLogger(l *slog.Logger) Option {
	return func(s *CharacterStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock は createdAt に使う時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(s *CharacterStore) { s.now = now }
}

// WithIDGenerator は ID の生成方法を差し替えます。
func WithIDGenerator(gen func() string) Option {
	return func(s *CharacterStore) { s.newID = gen }
}

// NewCharacterStore は KeyValue から保存済みのロスターを読み込んで CharacterStore を返します。
func NewCharacterStore(ctx context.Context, kv KeyValue, opts ...Option) (*CharacterStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("store: KeyValue は必須です")
	}
	s := &CharacterStore{
		kv:             kv,
		logger:         slog.Default(),
		now:            time.Now,
		newID:          uuid.NewString,
		persistTimeout: defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CharacterStore) load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, CharactersKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return fmt.Errorf("store: ロスターの読み込みに失敗しました: %w", err)
	default:
		var stored []domain.Character
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("store: ロスターのデコードに失敗しました: %w", err)
		}
		s.characters = s.validRoster(stored)
	}

	data, err = s.kv.Get(ctx, ActiveCharacterKey)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return fmt.Errorf("store: アクティブキャラクターの読み込みに失敗しました: %w", err)
	default:
		var active domain.Character
		if err := json.Unmarshal(data, &active); err != nil {
			return fmt.Errorf("store: アクティブキャラクターのデコードに失敗しました: %w", err)
		}
		// ロスターにいない ID を指すアクティブ指定は引き継ぎません
		if slices.ContainsFunc(s.characters, func(c domain.Character) bool { return c.ID == active.ID }) {
			s.active = &active
		} else {
			s.logger.Warn("Stale active character dropped", "id", active.ID)
		}
	}

	s.logger.Debug("Character roster loaded", "count", len(s.characters), "has_active", s.active != nil)
	return nil
}

// validRoster は保存済みのロスターを作成時と同じ規則で検証し直します。
// 規則に合わないエントリと重複した ID は読み飛ばします。
func (s *CharacterStore) validRoster(stored []domain.Character) []domain.Character {
	roster := make([]domain.Character, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, c := range stored {
		if c.ID == "" {
			s.logger.Warn("Stored character without id skipped", "nickname", c.Nickname)
			continue
		}
		if _, dup := seen[c.ID]; dup {
			s.logger.Warn("Duplicate stored character skipped", "id", c.ID)
			continue
		}
		valid, err := domain.NewCharacter(c.ID, c.Nickname, c.Photos, c.CreatedAt)
		if err != nil {
			s.logger.Warn("Invalid stored character skipped", "id", c.ID, "error", err)
			continue
		}
		seen[c.ID] = struct{}{}
		roster = append(roster, valid)
	}
	return roster
}

// AddCharacter は新しい ID と現在時刻でキャラクターを作成し、ロスターの末尾に追加します。
// 入力が不正な場合は *domain.ValidationError を返し、ロスターは変更されません。
func (s *CharacterStore) AddCharacter(nickname string, photos []domain.Photo) (domain.Character, error) {
	c, err := domain.NewCharacter(s.newID(), nickname, photos, s.now())
	if err != nil {
		return domain.Character{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.characters, func(e domain.Character) bool { return e.ID == c.ID }) {
		return domain.Character{}, &domain.ValidationError{Field: "id", Message: fmt.Sprintf("duplicate id %q", c.ID)}
	}
	s.characters = append(s.characters, c)
	s.persistCharacters()

	s.logger.Info("Character added", "id", c.ID, "nickname", c.Nickname, "photos", len(c.Photos))
	return c.Clone(), nil
}

// DeleteCharacter は ID に一致するキャラクターを削除します。存在しなければ何もしません。
// アクティブなキャラクターを削除した場合はアクティブ指定も解除します。
func (s *CharacterStore) DeleteCharacter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.characters, func(c domain.Character) bool { return c.ID == id })
	if i < 0 {
		return
	}
	s.characters = slices.Delete(s.characters, i, i+1)
	s.persistCharacters()

	if s.active != nil && s.active.ID == id {
		s.active = nil
		s.persistActive()
	}
	s.logger.Info("Character deleted", "id", id)
}

// SelectCharacter はアクティブなキャラクターを切り替えます。ID が見つからなければ何もしません。
func (s *CharacterStore) SelectCharacter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.characters, func(c domain.Character) bool { return c.ID == id })
	if i < 0 {
		return
	}
	active := s.characters[i].Clone()
	s.active = &active
	s.persistActive()
}

// Characters は挿入順のロスターのコピーを返します。
func (s *CharacterStore) Characters() []domain.Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Character, len(s.characters))
	for i, c := range s.characters {
		out[i] = c.Clone()
	}
	return out
}

// Character は ID に一致するキャラクターのコピーを返します。
func (s *CharacterStore) Character(id string) (domain.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.characters, func(c domain.Character) bool { return c.ID == id })
	if i < 0 {
		return domain.Character{}, false
	}
	return s.characters[i].Clone(), true
}

// ActiveCharacter はアクティブなキャラクターのスナップショットを返します。
func (s *CharacterStore) ActiveCharacter() (domain.Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return domain.Character{}, false
	}
	return s.active.Clone(), true
}

// persistCharacters と persistActive は s.mu を保持した状態で呼び出すこと。
func (s *CharacterStore) persistCharacters() {
	data, err := json.Marshal(s.characters)
	if err != nil {
		s.logger.Error("Failed to encode character roster", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.kv.Set(ctx, CharactersKey, data); err != nil {
		s.logger.Warn("Failed to persist character roster", "error", err)
	}
}

func (s *CharacterStore) persistActive() {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()

	if s.active == nil {
		if err := s.kv.Delete(ctx, ActiveCharacterKey); err != nil {
			s.logger.Warn("Failed to clear active character", "error", err)
		}
		return
	}
	data, err := json.Marshal(s.active)
	if err != nil {
		s.logger.Error("Failed to encode active character", "error", err)
		return
	}
	if err := s.kv.Set(ctx, ActiveCharacterKey, data); err != nil {
		s.logger.Warn("Failed to persist active character", "error", err)
	}
}
