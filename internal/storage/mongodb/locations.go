package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/types"
)

func normalizeLocation(l types.Location) types.Location {
	if l.States == nil {
		l.States = []string{}
	}
	return l
}

func (s *Store) ListLocations(ctx context.Context) ([]types.Location, error) {
	locations, err := findAll[types.Location](ctx, s.coll(colLocations), bson.M{},
		options.Find().SetSort(bson.D{{Key: "country", Value: 1}}))
	if err != nil {
		return nil, wrap("ListLocations", err)
	}
	for i := range locations {
		locations[i] = normalizeLocation(locations[i])
	}
	return locations, nil
}

func (s *Store) GetLocation(ctx context.Context, country string) (types.Location, error) {
	var loc types.Location
	if err := s.coll(colLocations).FindOne(ctx, bson.M{"country": country}).Decode(&loc); err != nil {
		return types.Location{}, wrap("GetLocation", err)
	}
	return normalizeLocation(loc), nil
}

func (s *Store) CreateLocation(ctx context.Context, country string) (types.Location, error) {
	// states must be stored as an array, not null, for $addToSet to work.
	loc := types.Location{ID: newID(), Country: country, States: []string{}}
	if _, err := s.coll(colLocations).InsertOne(ctx, loc); err != nil {
		return types.Location{}, wrap("CreateLocation", err)
	}
	return loc, nil
}

func (s *Store) AddState(ctx context.Context, country, state string) (types.Location, error) {
	return s.updateLocation(ctx, "AddState", country, bson.M{"$addToSet": bson.M{"states": state}})
}

func (s *Store) ReplaceStates(ctx context.Context, country string, states []string) (types.Location, error) {
	if states == nil {
		states = []string{}
	}
	return s.updateLocation(ctx, "ReplaceStates", country, bson.M{"$set": bson.M{"states": states}})
}

func (s *Store) RemoveState(ctx context.Context, country, state string) (types.Location, error) {
	return s.updateLocation(ctx, "RemoveState", country, bson.M{"$pull": bson.M{"states": state}})
}

func (s *Store) DeleteLocation(ctx context.Context, country string) error {
	res, err := s.coll(colLocations).DeleteOne(ctx, bson.M{"country": country})
	if err != nil {
		return wrap("DeleteLocation", err)
	}
	if res.DeletedCount == 0 {
		return wrap("DeleteLocation", storage.ErrNotFound)
	}
	return nil
}

func (s *Store) updateLocation(ctx context.Context, op, country string, update bson.M) (types.Location, error) {
	var loc types.Location
	err := s.coll(colLocations).
		FindOneAndUpdate(ctx, bson.M{"country": country}, update, after()).
		Decode(&loc)
	if err != nil {
		return types.Location{}, wrap(op, err)
	}
	return normalizeLocation(loc), nil
}
