// Package mongodb implements storage.Storage on MongoDB, the document
// store the admin panel was first built on. One collection per record
// type; a location keeps its states as an embedded array and every state
// mutation is a single atomic update ($addToSet, $pull, $set) on that
// document.
//
// Documents use the hex form of a fresh ObjectID as a string _id, so the
// API id and the stored id are the same value.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

const (
	colLocations = "locations"
	colDistricts = "districts"
	colCountries = "countries"
	colLanguages = "languages"
	colUsers     = "users"
	colEmployees = "employees"
	colStudents  = "students"
)

// Store is the MongoDB implementation of storage.Storage.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// New connects to cfg.Storage.MongoURI, pings the primary and makes sure
// the unique indexes exist.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.Storage.MongoURI == "" {
		return nil, errors.New("mongodb.New: mongo_uri is required for the mongo driver")
	}
	opts := options.Client().ApplyURI(cfg.Storage.MongoURI).
		SetMaxPoolSize(100).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetWriteConcern(writeconcern.Majority())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb.New: ping: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(cfg.Storage.MongoDatabase),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the unique indexes that carry the API's
// uniqueness rules. CreateMany is a no-op for indexes that already exist.
func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func(name string, keys ...string) mongo.IndexModel {
		doc := bson.D{}
		for _, k := range keys {
			doc = append(doc, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: doc, Options: options.Index().SetUnique(true).SetName(name)}
	}
	indexes := map[string][]mongo.IndexModel{
		colLocations: {unique("country_unique", "country")},
		colDistricts: {unique("district_unique", "country", "state", "district")},
		colCountries: {unique("name_unique", "name")},
		colLanguages: {unique("name_unique", "name")},
		colUsers:     {unique("email_unique", "email")},
		colEmployees: {unique("email_unique", "email")},
		colStudents:  {unique("email_unique", "email")},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongodb: create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) coll(name string) *mongo.Collection { return s.db.Collection(name) }

func newID() string { return primitive.NewObjectID().Hex() }

// wrap annotates err with op and maps driver errors onto the storage
// sentinels.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// after makes FindOneAndUpdate return the updated document.
func after() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// findAll decodes every document matched by filter into a non-nil slice.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]T, 0)
	}
	return out, nil
}

func byID(id string) bson.M { return bson.M{"_id": id} }

// deleteOne removes a document by id and reports ErrNotFound when nothing
// matched.
func deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
