package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/grade"
)

type gradeRepository struct {
	col *mongo.Collection
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *mongo.Database) grade.Repository {
	return &gradeRepository{col: db.Collection(colGrades)}
}

func (repo *gradeRepository) CreateGrades(ctx context.Context, grades ...grade.Grade) ([]grade.Grade, error) {
	if len(grades) == 0 {
		return nil, nil
	}
	docs := make([]interface{}, 0, len(grades))
	for i := range grades {
		grades[i].ID = primitive.NewObjectID().Hex()
		docs = append(docs, grades[i])
	}
	if _, err := repo.col.InsertMany(ctx, docs); err != nil {
		return nil, errors.Wrap(err, "inserting grades")
	}
	return grades, nil
}

func (repo *gradeRepository) GetGradeByID(ctx context.Context, id string) (grade.Grade, error) {
	var grd grade.Grade
	if err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&grd); err != nil {
		if err == mongo.ErrNoDocuments {
			return grade.Grade{}, grade.ErrNotFound
		}
		return grade.Grade{}, errors.Wrap(err, "finding grade")
	}
	return grd, nil
}

func (repo *gradeRepository) FilterGrades(ctx context.Context, filter grade.QueryFilter) ([]grade.Grade, error) {
	query := bson.M{}
	if filter.EnrollmentNumber != "" {
		query["numero_matricule"] = filter.EnrollmentNumber
	}
	if filter.YearLabel != "" {
		query["annee_scolaire"] = filter.YearLabel
	}
	if filter.Subject != "" {
		query["matiere"] = filter.Subject
	}
	if filter.Session != "" {
		query["session"] = filter.Session
	}

	opts := options.Find().SetSort(bson.D{{Key: "matiere", Value: 1}, {Key: "session", Value: 1}})
	cursor, err := repo.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	grades := make([]grade.Grade, 0)
	if err = cursor.All(ctx, &grades); err != nil {
		return nil, errors.Wrap(err, "decoding grades")
	}
	return grades, nil
}

func (repo *gradeRepository) UpdateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": grd.ID}, grd)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "updating grade")
	}
	if res.MatchedCount == 0 {
		return grade.Grade{}, grade.ErrNotFound
	}
	return grd, nil
}

func (repo *gradeRepository) DeleteGrade(ctx context.Context, id string) error {
	if _, err := repo.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return nil
}
