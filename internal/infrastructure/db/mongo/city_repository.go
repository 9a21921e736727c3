package mongo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

type CityRepository struct {
	coll *mongo.Collection
}

func NewCityRepository(db *mongo.Database) *CityRepository {
	return &CityRepository{coll: db.Collection(collectionCities)}
}

// ListCities returns one page ordered by name, plus the total match count.
// Search is a case-insensitive substring match on the name.
func (r *CityRepository) ListCities(ctx context.Context, filter ports.ListCitiesFilter) ([]domain.Ville, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["nom"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count cities: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "nom", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.PerPage)).
		SetLimit(int64(filter.PerPage))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list cities: %w", err)
	}
	defer cur.Close(ctx)

	cities := []domain.Ville{}
	if err := cur.All(ctx, &cities); err != nil {
		return nil, 0, fmt.Errorf("decode cities: %w", err)
	}
	return cities, total, nil
}

func (r *CityRepository) CreateCity(ctx context.Context, v *domain.Ville) (*domain.Ville, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *v
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert city: %w", err)
	}
	return &doc, nil
}

var _ ports.CityRepository = (*CityRepository)(nil)
