package chatbot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Conversation is one logged chatbot exchange.
type Conversation struct {
	UserID    string    `bson:"userId"`
	SessionID string    `bson:"sessionId"`
	Message   string    `bson:"userMessage"`
	Response  string    `bson:"response"`
	Category  string    `bson:"category"`
	UserAgent string    `bson:"userAgent,omitempty"`
	CreatedAt time.Time `bson:"timestamp"`
}

// Analytics records chatbot usage. Failures must be swallowed by callers so
// analytics never break the conversation.
type Analytics interface {
	// LogConversation appends a conversation record.
	LogConversation(ctx context.Context, conv Conversation) error

	// IncrementCategory bumps the per-category popularity counter.
	IncrementCategory(ctx context.Context, category string) error

	// Close closes any open connections.
	Close() error
}

// MongoAnalytics stores analytics in the chatbot_conversations and
// chatbot_analytics collections.
type MongoAnalytics struct {
	client        *mongo.Client
	ownsClient    bool
	conversations *mongo.Collection
	counters      *mongo.Collection
}

// NewMongoAnalytics creates a MongoDB-backed analytics sink.
func NewMongoAnalytics(connectionString, database string) (*MongoAnalytics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &MongoAnalytics{
		client:        client,
		ownsClient:    true,
		conversations: db.Collection("chatbot_conversations"),
		counters:      db.Collection("chatbot_analytics"),
	}, nil
}

// NewMongoAnalyticsWithClient creates an analytics sink on a shared client.
func NewMongoAnalyticsWithClient(client *mongo.Client, database string) *MongoAnalytics {
	db := client.Database(database)
	return &MongoAnalytics{
		client:        client,
		ownsClient:    false,
		conversations: db.Collection("chatbot_conversations"),
		counters:      db.Collection("chatbot_analytics"),
	}
}

// LogConversation appends a conversation record.
func (a *MongoAnalytics) LogConversation(ctx context.Context, conv Conversation) error {
	if _, err := a.conversations.InsertOne(ctx, conv); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// IncrementCategory bumps the per-category popularity counter.
func (a *MongoAnalytics) IncrementCategory(ctx context.Context, category string) error {
	opts := options.Update().SetUpsert(true)
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{"lastAsked": time.Now()},
	}
	if _, err := a.counters.UpdateOne(ctx, bson.M{"category": category}, update, opts); err != nil {
		return fmt.Errorf("increment category counter: %w", err)
	}
	return nil
}

// Close disconnects if this sink owns the client.
func (a *MongoAnalytics) Close() error {
	if !a.ownsClient {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}

// MemoryAnalytics is an in-memory sink for tests.
type MemoryAnalytics struct {
	mu            sync.RWMutex
	Conversations []Conversation
	Counters      map[string]int
}

// NewMemoryAnalytics creates an empty in-memory analytics sink.
func NewMemoryAnalytics() *MemoryAnalytics {
	return &MemoryAnalytics{Counters: make(map[string]int)}
}

func (a *MemoryAnalytics) LogConversation(_ context.Context, conv Conversation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Conversations = append(a.Conversations, conv)
	return nil
}

func (a *MemoryAnalytics) IncrementCategory(_ context.Context, category string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Counters[category]++
	return nil
}

// Count returns the recorded hits for a category.
func (a *MemoryAnalytics) Count(category string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Counters[category]
}

func (a *MemoryAnalytics) Close() error {
	return nil
}

// NoopAnalytics discards everything. Used when no sink is configured.
type NoopAnalytics struct{}

func (NoopAnalytics) LogConversation(context.Context, Conversation) error { return nil }
func (NoopAnalytics) IncrementCategory(context.Context, string) error     { return nil }
func (NoopAnalytics) Close() error                                        { return nil }
