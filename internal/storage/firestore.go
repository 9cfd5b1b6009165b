package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"practice-interview/internal/interview"
)

// FirestoreStore документы лежат в коллекции practiceInterviews (или заданной),
// createdAt выставляет сервер
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore credentialsFile может быть пустым, тогда используются
// учетные данные окружения
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile, collection string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) SaveSession(ctx context.Context, summary interview.SessionSummary) (string, error) {
	if summary.SessionID == "" {
		summary.SessionID = uuid.New().String()
	}
	// нулевое время с тегом serverTimestamp заменяется временем сервера
	summary.CreatedAt = time.Time{}

	doc := s.client.Collection(s.collection).Doc(summary.SessionID)
	if _, err := doc.Create(ctx, summary); err != nil {
		return "", fmt.Errorf("create session %s: %w", summary.SessionID, err)
	}
	return summary.SessionID, nil
}

func (s *FirestoreStore) ListSessions(ctx context.Context, studentID string) ([]interview.SessionSummary, error) {
	iter := s.client.Collection(s.collection).
		Where("studentId", "==", studentID).
		Documents(ctx)
	defer iter.Stop()

	out := []interview.SessionSummary{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query sessions: %w", err)
		}
		var summary interview.SessionSummary
		if err := snap.DataTo(&summary); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", snap.Ref.ID, err)
		}
		out = append(out, summary)
	}
	// сортировка на клиенте, чтобы не требовать составной индекс
	sortNewestFirst(out)
	return out, nil
}

func (s *FirestoreStore) Close(context.Context) error {
	return s.client.Close()
}
