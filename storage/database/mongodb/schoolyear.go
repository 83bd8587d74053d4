package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/schoolyear"
)

type yearRepository struct {
	col *mongo.Collection
}

var _ schoolyear.Repository = (*yearRepository)(nil) // interface compliance check

func NewSchoolYearRepository(db *mongo.Database) schoolyear.Repository {
	return &yearRepository{col: db.Collection(colSchoolYears)}
}

func (repo *yearRepository) CreateYear(ctx context.Context, year schoolyear.SchoolYear) (schoolyear.SchoolYear, error) {
	year.ID = primitive.NewObjectID().Hex()
	if _, err := repo.col.InsertOne(ctx, year); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return schoolyear.SchoolYear{}, schoolyear.ErrYearExists
		}
		return schoolyear.SchoolYear{}, errors.Wrap(err, "inserting school year")
	}
	return year, nil
}

func (repo *yearRepository) getYear(ctx context.Context, filter bson.M) (schoolyear.SchoolYear, error) {
	var year schoolyear.SchoolYear
	if err := repo.col.FindOne(ctx, filter).Decode(&year); err != nil {
		if err == mongo.ErrNoDocuments {
			return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
		}
		return schoolyear.SchoolYear{}, errors.Wrap(err, "finding school year")
	}
	return year, nil
}

func (repo *yearRepository) GetYearByID(ctx context.Context, id string) (schoolyear.SchoolYear, error) {
	return repo.getYear(ctx, bson.M{"_id": id})
}

func (repo *yearRepository) GetYearByLabel(ctx context.Context, label string) (schoolyear.SchoolYear, error) {
	return repo.getYear(ctx, bson.M{"annee_label": label})
}

func (repo *yearRepository) GetActiveYear(ctx context.Context) (schoolyear.SchoolYear, error) {
	year, err := repo.getYear(ctx, bson.M{"est_active": true})
	if err == schoolyear.ErrNotFound {
		return schoolyear.SchoolYear{}, schoolyear.ErrNoActiveYear
	}
	return year, err
}

func (repo *yearRepository) queryYears(ctx context.Context, filter bson.M) ([]schoolyear.SchoolYear, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_debut", Value: -1}})
	cursor, err := repo.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying school years")
	}
	years := make([]schoolyear.SchoolYear, 0)
	if err = cursor.All(ctx, &years); err != nil {
		return nil, errors.Wrap(err, "decoding school years")
	}
	return years, nil
}

func (repo *yearRepository) QueryAllYears(ctx context.Context) ([]schoolyear.SchoolYear, error) {
	return repo.queryYears(ctx, bson.M{})
}

func (repo *yearRepository) QueryArchivedYears(ctx context.Context) ([]schoolyear.SchoolYear, error) {
	return repo.queryYears(ctx, bson.M{"est_active": false})
}

func (repo *yearRepository) DeactivateAllYears(ctx context.Context) error {
	_, err := repo.col.UpdateMany(ctx,
		bson.M{"est_active": true},
		bson.M{"$set": bson.M{"est_active": false, "updated_at": time.Now().UTC()}},
	)
	return errors.Wrap(err, "deactivating school years")
}

func (repo *yearRepository) SetYearActive(ctx context.Context, id string, active bool) (schoolyear.SchoolYear, error) {
	res := repo.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"est_active": active, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var year schoolyear.SchoolYear
	if err := res.Decode(&year); err != nil {
		if err == mongo.ErrNoDocuments {
			return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
		}
		return schoolyear.SchoolYear{}, errors.Wrap(err, "updating school year")
	}
	return year, nil
}

func (repo *yearRepository) SaveTransitionStats(ctx context.Context, id string, stats schoolyear.TransitionStats) (schoolyear.SchoolYear, error) {
	res := repo.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"statistiques_transition": stats, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var year schoolyear.SchoolYear
	if err := res.Decode(&year); err != nil {
		if err == mongo.ErrNoDocuments {
			return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
		}
		return schoolyear.SchoolYear{}, errors.Wrap(err, "saving transition stats")
	}
	return year, nil
}
