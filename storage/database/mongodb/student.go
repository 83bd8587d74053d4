package mongodb

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	col *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *mongo.Database) student.Repository {
	return &studentRepository{col: db.Collection(colStudents)}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = primitive.NewObjectID().Hex()
	if _, err := repo.col.InsertOne(ctx, std); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.Student{}, student.ErrEnrollmentExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByEnrollmentNumber(ctx context.Context, enrollmentNumber string) (student.Student, error) {
	var std student.Student
	if err := repo.col.FindOne(ctx, bson.M{"numero_matricule": enrollmentNumber}).Decode(&std); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	return std, nil
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	query := bson.M{}
	if filter.YearLabel != "" {
		query["annee_scolaire"] = filter.YearLabel
	}
	if filter.Class != "" {
		query["classe"] = filter.Class
	}
	if filter.ParentPhone != "" {
		query["telephone_parent"] = primitive.Regex{Pattern: filter.ParentPhone, Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := repo.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0)
	if err = cursor.All(ctx, &students); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	return students, nil
}

func (repo *studentRepository) QueryClasses(ctx context.Context) ([]string, error) {
	values, err := repo.col.Distinct(ctx, "classe", bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying distinct classes")
	}
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok {
			classes = append(classes, c)
		}
	}
	sort.Strings(classes)
	return classes, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"numero_matricule": std.EnrollmentNumber}, std)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if res.MatchedCount == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, enrollmentNumber string) error {
	if _, err := repo.col.DeleteOne(ctx, bson.M{"numero_matricule": enrollmentNumber}); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}
