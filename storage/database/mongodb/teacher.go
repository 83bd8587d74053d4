package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/teacher"
)

type teacherRepository struct {
	col *mongo.Collection
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *mongo.Database) teacher.Repository {
	return &teacherRepository{col: db.Collection(colTeachers)}
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	tch.ID = primitive.NewObjectID().Hex()
	if _, err := repo.col.InsertOne(ctx, tch); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	var tch teacher.Teacher
	if err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tch); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "finding teacher")
	}
	return tch, nil
}

func (repo *teacherRepository) FilterTeachers(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	query := bson.M{}
	if filter.Subject != "" {
		query["matiere"] = filter.Subject
	}
	if filter.Class != "" {
		query["classes"] = filter.Class
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := repo.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0)
	if err = cursor.All(ctx, &teachers); err != nil {
		return nil, errors.Wrap(err, "decoding teachers")
	}
	return teachers, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": tch.ID}, tch)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if res.MatchedCount == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return tch, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	if _, err := repo.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return nil
}
