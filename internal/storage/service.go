package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"practice-interview/internal/interview"
)

const filePrefix = "interview_"

// FileStore хранит каждую сессию отдельным JSON файлом в директории результатов
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, filePrefix+sessionID+".json")
}

// SaveSession сохраняет результат сессии в JSON файл
func (s *FileStore) SaveSession(ctx context.Context, summary interview.SessionSummary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if summary.SessionID == "" {
		summary.SessionID = uuid.New().String()
	}
	summary.CreatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории %s: %w", s.dir, err)
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	path := s.path(summary.SessionID)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}
	return summary.SessionID, nil
}

// LoadSession загружает результат сессии из JSON файла
func (s *FileStore) LoadSession(sessionID string) (*interview.SessionSummary, error) {
	path := s.path(sessionID)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var summary interview.SessionSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON %s: %w", path, err)
	}
	return &summary, nil
}

// ListSessionIDs id всех сохраненных сессий
func (s *FileStore) ListSessionIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", s.dir, err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".json"))
	}
	return ids, nil
}

func (s *FileStore) ListSessions(ctx context.Context, studentID string) ([]interview.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.ListSessionIDs()
	if err != nil {
		return nil, err
	}

	out := []interview.SessionSummary{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary, err := s.LoadSession(id)
		if err != nil {
			return nil, err
		}
		if summary.StudentID == studentID {
			out = append(out, *summary)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *FileStore) Close(context.Context) error { return nil }

func sortNewestFirst(records []interview.SessionSummary) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
