package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Kind names one of the record collections.
type Kind string

const (
	Contacts    Kind = "contacts"
	Volunteers  Kind = "volunteers"
	Donations   Kind = "donations"
	Subscribers Kind = "subscribers"
)

// ErrStorage wraps every failure coming back from the driver.
var ErrStorage = errors.New("storage error")

// Connect initializes the MongoDB connection using the provided URI.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB!")
	return client, nil
}

// Store is the record store adapter over a Mongo database.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Insert writes doc into the collection for kind and returns its id as a string.
func (s *Store) Insert(ctx context.Context, kind Kind, doc interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.Collection(string(kind)).InsertOne(ctx, doc)
	if err != nil {
		log.Printf("Failed to insert into %s: %v", kind, err)
		return "", fmt.Errorf("%w: insert %s: %v", ErrStorage, kind, err)
	}
	return idString(result.InsertedID), nil
}

// UpdateWhere applies patch with $set to every record matching filter and
// returns how many records matched.
func (s *Store) UpdateWhere(ctx context.Context, kind Kind, filter, patch bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.Collection(string(kind)).UpdateMany(ctx, filter, bson.M{"$set": patch})
	if err != nil {
		log.Printf("Failed to update %s where %v: %v", kind, filter, err)
		return 0, fmt.Errorf("%w: update %s: %v", ErrStorage, kind, err)
	}
	return result.MatchedCount, nil
}

// EnsureIndexes creates the lookup indexes confirmation relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tx_ref", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := s.db.Collection(string(Donations)).Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create indexes: %v", err)
		return fmt.Errorf("%w: create indexes: %v", ErrStorage, err)
	}
	return nil
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case interface{ Hex() string }:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
