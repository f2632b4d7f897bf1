package identity

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBRepository implements Repository using MongoDB.
type MongoDBRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoDBRepository creates a MongoDB-backed user repository.
func NewMongoDBRepository(connectionString, database, collection string) (*MongoDBRepository, error) {
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

	coll := client.Database(database).Collection(collection)

	// Email uniqueness is only enforced among verified accounts; an
	// abandoned unverified registration must never block a real signup.
	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"verified": true}),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &MongoDBRepository{
		client:     client,
		collection: coll,
	}, nil
}

// FindByEmail retrieves a user by normalized email.
func (r *MongoDBRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Upsert replaces the account stored under user.Email, creating it if absent.
func (r *MongoDBRepository) Upsert(ctx context.Context, user User) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"email": user.Email}, user, opts); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Update rewrites an existing account.
func (r *MongoDBRepository) Update(ctx context.Context, user User) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"email": user.Email}, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (r *MongoDBRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
