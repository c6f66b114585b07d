package i18n

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTranslationCollection = "translations"

type finder interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// MongoSource reads entries from a collection of
// {domain, locale, key, message} documents, optionally limited to Domains.
type MongoSource struct {
	Collection finder
	Domains    []string
}

func (s MongoSource) Load(ctx context.Context) ([]Entry, error) {
	filter := bson.M{}
	if len(s.Domains) > 0 {
		filter["domain"] = bson.M{"$in": s.Domains}
	}

	cur, err := s.Collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find translations: %w", err)
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return entries, nil
}

var mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

// ConnectMongoSource dials uri and returns a source over database.translations.
// The returned client must be disconnected by the caller.
func ConnectMongoSource(ctx context.Context, uri, database string) (MongoSource, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongoConnect(ctx, uri)
	if err != nil {
		return MongoSource{}, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return MongoSource{}, nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(database).Collection(defaultTranslationCollection)
	return MongoSource{Collection: coll}, client, nil
}
