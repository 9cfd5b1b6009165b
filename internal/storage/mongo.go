package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"practice-interview/internal/interview"
)

// MongoStore одна коллекция, _id документа равен id сессии
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore подключается и проверяет соединение пингом
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("MongoDB: база %s, коллекция %s", database, collection)
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) SaveSession(ctx context.Context, summary interview.SessionSummary) (string, error) {
	if summary.SessionID == "" {
		summary.SessionID = uuid.New().String()
	}
	summary.CreatedAt = time.Now().UTC()

	if _, err := s.collection.InsertOne(ctx, summary); err != nil {
		return "", fmt.Errorf("insert session %s: %w", summary.SessionID, err)
	}
	return summary.SessionID, nil
}

func (s *MongoStore) ListSessions(ctx context.Context, studentID string) ([]interview.SessionSummary, error) {
	cursor, err := s.collection.Find(ctx,
		bson.M{"studentId": studentID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	out := []interview.SessionSummary{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
