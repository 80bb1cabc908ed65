package i18n

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// PreferenceTTL bounds how long a session's language choice is remembered.
const PreferenceTTL = 24 * time.Hour

// PreferenceStore remembers the language chosen in a dialog session.
type PreferenceStore interface {
	Get(ctx context.Context, session string) (Language, bool, error)
	Set(ctx context.Context, session string, lang Language) error
}

// RedisPreferenceStore keeps preferences under lang:<session>.
type RedisPreferenceStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisPreferenceStore(client *redis.Client) *RedisPreferenceStore {
	if client == nil {
		panic("i18n: redis client cannot be nil")
	}
	return &RedisPreferenceStore{redis: client, ttl: PreferenceTTL}
}

func preferenceKey(session string) string {
	return fmt.Sprintf("lang:%s", session)
}

func (s *RedisPreferenceStore) Get(ctx context.Context, session string) (Language, bool, error) {
	val, err := s.redis.Get(ctx, preferenceKey(session)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("i18n: load preference: %w", err)
	}
	lang, ok := ParseLanguage(val)
	return lang, ok, nil
}

func (s *RedisPreferenceStore) Set(ctx context.Context, session string, lang Language) error {
	if err := s.redis.Set(ctx, preferenceKey(session), string(lang), s.ttl).Err(); err != nil {
		return fmt.Errorf("i18n: save preference: %w", err)
	}
	return nil
}

// MemoryPreferenceStore is an in-process PreferenceStore without expiry.
type MemoryPreferenceStore struct {
	mu    sync.RWMutex
	prefs map[string]Language
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]Language)}
}

func (s *MemoryPreferenceStore) Get(_ context.Context, session string) (Language, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lang, ok := s.prefs[session]
	return lang, ok, nil
}

func (s *MemoryPreferenceStore) Set(_ context.Context, session string, lang Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[session] = lang
	return nil
}

// Choose picks the reply language: an explicit slot (which is also saved for
// the session), then the saved preference, then the platform's language
// code, then def. Store failures never block a reply; the first one is
// returned alongside the chosen language.
func Choose(ctx context.Context, prefs PreferenceStore, session, slot, platformCode string, def Language) (Language, error) {
	var firstErr error
	if lang, ok := ParseLanguage(slot); ok {
		if prefs != nil && session != "" {
			firstErr = prefs.Set(ctx, session, lang)
		}
		return lang, firstErr
	}
	if prefs != nil && session != "" {
		lang, ok, err := prefs.Get(ctx, session)
		if err != nil {
			firstErr = err
		} else if ok {
			return lang, nil
		}
	}
	if lang, ok := ParseLanguage(platformCode); ok {
		return lang, firstErr
	}
	if _, ok := ParseLanguage(string(def)); !ok {
		def = English
	}
	return def, firstErr
}
