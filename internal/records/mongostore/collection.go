// Package mongostore stores expense records in a MongoDB collection.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DataStore is the subset of collection operations the repository needs.
// Cursor handling stays inside the adapter so fakes only deal in documents.
type DataStore interface {
	InsertOne(ctx context.Context, doc expenseDocument) error
	FindOne(ctx context.Context, filter bson.M) (expenseDocument, error)
	FindMany(ctx context.Context, filter bson.M, sort bson.D) ([]expenseDocument, error)
	UpdateOne(ctx context.Context, filter bson.M, set bson.M) (matched int64, err error)
	DeleteOne(ctx context.Context, filter bson.M) (deleted int64, err error)
	Ping(ctx context.Context) error
}

// Collection adapts *mongo.Collection to DataStore.
type Collection struct {
	*mongo.Collection
}

func (c *Collection) InsertOne(ctx context.Context, doc expenseDocument) error {
	if _, err := c.Collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to perform InsertOne: %w", err)
	}
	return nil
}

func (c *Collection) FindOne(ctx context.Context, filter bson.M) (expenseDocument, error) {
	var doc expenseDocument
	err := c.Collection.FindOne(ctx, filter).Decode(&doc)
	return doc, err
}

func (c *Collection) FindMany(ctx context.Context, filter bson.M, sort bson.D) ([]expenseDocument, error) {
	cur, err := c.Collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to perform Find: %w", err)
	}
	docs := make([]expenseDocument, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}
	return docs, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (int64, error) {
	res, err := c.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("failed to perform UpdateOne: %w", err)
	}
	return res.MatchedCount, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to perform DeleteOne: %w", err)
	}
	return res.DeletedCount, nil
}

func (c *Collection) Ping(ctx context.Context) error {
	return c.Database().Client().Ping(ctx, readpref.Primary())
}

// Connect dials MongoDB, verifies the connection and makes sure the list
// index exists on the target collection.
func Connect(ctx context.Context, uri, database, collection string) (*mongo.Client, *Collection, error) {
	slog.DebugContext(ctx, "Attempting to connect to MongoDB", "database", database, "collection", collection)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("userId_date"),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to create index: %w", err)
	}

	slog.InfoContext(ctx, "Successfully established connection to MongoDB")
	return client, &Collection{coll}, nil
}
