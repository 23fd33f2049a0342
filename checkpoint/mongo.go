package checkpoint

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const seenURLsDocID = "seen_urls"

// categoryDoc is one category's checkpoint entry. Current documents carry
// kind="category"; documents written by the pre-discriminator schema have the
// bare category name as _id and no kind field, and are handled by the legacy
// read path below.
type categoryDoc struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind,omitempty"`
	Category  string    `bson:"category,omitempty"`
	Digest    string    `bson:"digest"`
	Corpus    string    `bson:"corpus"`
	RunID     string    `bson:"run_id,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty"`
}

type seenDoc struct {
	ID   string   `bson:"_id"`
	URLs []string `bson:"urls"`
}

// MongoStore keeps the checkpoint in a single collection: one document per
// category plus one seen-URL document.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects, pings, and binds the collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(collection),
	}, nil
}

// Close releases the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Load reads all category documents and the seen-URL document. If no
// kind-tagged documents exist it falls back to the legacy schema, so
// checkpoints written by older deployments resume cleanly. The legacy/new
// distinction never leaves this adapter.
func (s *MongoStore) Load(ctx context.Context) (Checkpoint, error) {
	cp := New()

	docs, err := s.findCategoryDocs(ctx, bson.M{"kind": "category"})
	if err != nil {
		return Checkpoint{}, err
	}
	if len(docs) == 0 {
		docs, err = s.findCategoryDocs(ctx, bson.M{
			"kind": bson.M{"$exists": false},
			"_id":  bson.M{"$ne": seenURLsDocID},
		})
		if err != nil {
			return Checkpoint{}, err
		}
	}
	for _, d := range docs {
		name := d.Category
		if name == "" {
			name = d.ID // legacy documents keyed by bare category name
		}
		cp.Digests[name] = d.Digest
		cp.Corpora[name] = d.Corpus
	}

	var seen seenDoc
	err = s.col.FindOne(ctx, bson.M{"_id": seenURLsDocID}).Decode(&seen)
	if err != nil && err != mongo.ErrNoDocuments {
		return Checkpoint{}, fmt.Errorf("load seen urls: %w", err)
	}
	cp.SeenURLs = seen.URLs
	return cp, nil
}

func (s *MongoStore) findCategoryDocs(ctx context.Context, filter bson.M) ([]categoryDoc, error) {
	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return docs, nil
}

// Save upserts every category document and the seen-URL document using the
// current schema. Legacy documents are left in place; the kind-tagged copies
// shadow them on the next Load.
func (s *MongoStore) Save(ctx context.Context, cp Checkpoint) error {
	now := time.Now().UTC()
	upsert := options.Replace().SetUpsert(true)

	for category, digest := range cp.Digests {
		doc := categoryDoc{
			ID:        "category:" + category,
			Kind:      "category",
			Category:  category,
			Digest:    digest,
			Corpus:    cp.Corpora[category],
			RunID:     cp.RunID,
			UpdatedAt: now,
		}
		if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, upsert); err != nil {
			return fmt.Errorf("save category %q: %w", category, err)
		}
	}

	seen := seenDoc{ID: seenURLsDocID, URLs: cp.SeenURLs}
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": seenURLsDocID}, seen, upsert); err != nil {
		return fmt.Errorf("save seen urls: %w", err)
	}
	return nil
}
