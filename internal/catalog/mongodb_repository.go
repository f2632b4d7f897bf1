package catalog

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

// mongoProduct represents the MongoDB document structure.
// Catalog IDs are application-assigned strings ("1", "2", ...) stored in
// their own field so documents seeded by earlier tooling keep their ObjectIDs.
type mongoProduct struct {
	ID        string    `bson:"id"`
	Name      string    `bson:"name"`
	Price     int64     `bson:"price"`
	Image     string    `bson:"image,omitempty"`
	Active    *bool     `bson:"active,omitempty"`
	CreatedAt time.Time `bson:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty"`
}

// NewMongoDBRepository creates a MongoDB-backed repository.
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

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "active", Value: 1}},
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

// activeFilter matches documents that are not explicitly deactivated.
// Seeded catalogs predate the active flag, so a missing field counts as active.
func activeFilter() bson.M {
	return bson.M{"active": bson.M{"$ne": false}}
}

// GetProduct retrieves an active product by ID.
func (r *MongoDBRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	filter := activeFilter()
	filter["id"] = id

	var mp mongoProduct
	err := r.collection.FindOne(ctx, filter).Decode(&mp)
	if err == mongo.ErrNoDocuments {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("find product: %w", err)
	}

	return mongoToProduct(mp), nil
}

// ListProducts returns all active products.
func (r *MongoDBRepository) ListProducts(ctx context.Context) ([]Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.collection.Find(ctx, activeFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []Product
	for cursor.Next(ctx) {
		var mp mongoProduct
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, mongoToProduct(mp))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// CreateProduct creates a new product.
func (r *MongoDBRepository) CreateProduct(ctx context.Context, product Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Active = true

	if _, err := r.collection.InsertOne(ctx, productToMongo(product)); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct updates an existing product.
func (r *MongoDBRepository) UpdateProduct(ctx context.Context, product Product) error {
	product.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":      product.Name,
		"price":     product.Price,
		"image":     product.Image,
		"updatedAt": product.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": product.ID}, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct soft-deletes a product.
func (r *MongoDBRepository) DeleteProduct(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"active":    false,
		"updatedAt": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (r *MongoDBRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func mongoToProduct(mp mongoProduct) Product {
	active := true
	if mp.Active != nil {
		active = *mp.Active
	}
	return Product{
		ID:        mp.ID,
		Name:      mp.Name,
		Price:     mp.Price,
		Image:     mp.Image,
		Active:    active,
		CreatedAt: mp.CreatedAt,
		UpdatedAt: mp.UpdatedAt,
	}
}

func productToMongo(p Product) mongoProduct {
	return mongoProduct{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Active:    &p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
