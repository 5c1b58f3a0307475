package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound signals that no document exists under the given identifier.
// Callers must check for it explicitly; missing documents never panic or
// surface as raw driver errors.
var ErrNotFound = errors.New("document not found")

// Store is the document-store contract the controllers depend on. Documents
// are flat field mappings keyed by identifier within a named collection.
type Store interface {
	// Save writes doc under id, overwriting any existing document.
	Save(ctx context.Context, collection, id string, doc bson.M) error
	// FindByID returns the stored document or ErrNotFound.
	FindByID(ctx context.Context, collection, id string) (bson.M, error)
	// FindByUser returns all documents whose user_id matches, newest-first.
	FindByUser(ctx context.Context, collection, userID string) ([]Document, error)
	// FindAll returns all documents in the collection, newest-first.
	FindAll(ctx context.Context, collection string) ([]Document, error)
	// UpdateFields applies a partial update to an existing document,
	// returning ErrNotFound when no document matched.
	UpdateFields(ctx context.Context, collection, id string, fields bson.M) error
}

// Document pairs a stored field mapping with its document key.
type Document struct {
	ID     string
	Fields bson.M
}

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	db *mongo.Database
}

// NewMongo wraps a database handle.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Save(ctx context.Context, collection, id string, doc bson.M) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}

func (m *Mongo) FindByID(ctx context.Context, collection, id string) (bson.M, error) {
	var doc bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	delete(doc, "_id")
	return doc, nil
}

func (m *Mongo) FindByUser(ctx context.Context, collection, userID string) ([]Document, error) {
	return m.find(ctx, collection, bson.M{"user_id": userID})
}

func (m *Mongo) FindAll(ctx context.Context, collection string) ([]Document, error) {
	return m.find(ctx, collection, bson.M{})
}

func (m *Mongo) find(ctx context.Context, collection string, filter bson.M) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		id, _ := doc["_id"].(string)
		delete(doc, "_id")
		docs = append(docs, Document{ID: id, Fields: doc})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", collection, err)
	}
	return docs, nil
}

func (m *Mongo) UpdateFields(ctx context.Context, collection, id string, fields bson.M) error {
	result, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
