package storage

import (
	"context"
	"errors"

	"practice-interview/internal/interview"
)

// ErrNotFound запись сессии не найдена
var ErrNotFound = errors.New("session not found")

// Store хранилище завершенных сессий
type Store interface {
	// SaveSession записывает итог один раз и возвращает id сессии.
	// Время создания проставляет хранилище.
	SaveSession(ctx context.Context, summary interview.SessionSummary) (string, error)
	// ListSessions сессии студента, новые первыми
	ListSessions(ctx context.Context, studentID string) ([]interview.SessionSummary, error)
	Close(ctx context.Context) error
}
