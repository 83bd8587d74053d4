package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/archive"
)

type archiveRepository struct {
	students *mongo.Collection
	payments *mongo.Collection
}

var _ archive.Repository = (*archiveRepository)(nil) // interface compliance check

func NewArchiveRepository(db *mongo.Database) archive.Repository {
	return &archiveRepository{
		students: db.Collection(colStudentArchives),
		payments: db.Collection(colPaymentArchives),
	}
}

func (repo *archiveRepository) CreateStudentArchive(ctx context.Context, arch archive.StudentArchive) (archive.StudentArchive, error) {
	arch.ID = primitive.NewObjectID().Hex()
	if _, err := repo.students.InsertOne(ctx, arch); err != nil {
		return archive.StudentArchive{}, errors.Wrap(err, "inserting student archive")
	}
	return arch, nil
}

func (repo *archiveRepository) CreatePaymentArchive(ctx context.Context, arch archive.PaymentArchive) (archive.PaymentArchive, error) {
	arch.ID = primitive.NewObjectID().Hex()
	if _, err := repo.payments.InsertOne(ctx, arch); err != nil {
		return archive.PaymentArchive{}, errors.Wrap(err, "inserting payment archive")
	}
	return arch, nil
}

func (repo *archiveRepository) GetStudentArchive(ctx context.Context, yearLabel, enrollmentNumber string) (archive.StudentArchive, error) {
	var arch archive.StudentArchive
	filter := bson.M{"annee_scolaire": yearLabel, "numero_matricule": enrollmentNumber}
	if err := repo.students.FindOne(ctx, filter).Decode(&arch); err != nil {
		if err == mongo.ErrNoDocuments {
			return archive.StudentArchive{}, archive.ErrNotFound
		}
		return archive.StudentArchive{}, errors.Wrap(err, "finding student archive")
	}
	return arch, nil
}

func (repo *archiveRepository) QueryStudentArchivesByYear(ctx context.Context, yearLabel string) ([]archive.StudentArchive, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nom", Value: 1}, {Key: "prenom", Value: 1}})
	cursor, err := repo.students.Find(ctx, bson.M{"annee_scolaire": yearLabel}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying student archives")
	}
	archives := make([]archive.StudentArchive, 0)
	if err = cursor.All(ctx, &archives); err != nil {
		return nil, errors.Wrap(err, "decoding student archives")
	}
	return archives, nil
}

func (repo *archiveRepository) QueryPaymentArchivesByYear(ctx context.Context, yearLabel string) ([]archive.PaymentArchive, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_archivage", Value: 1}})
	cursor, err := repo.payments.Find(ctx, bson.M{"annee_scolaire": yearLabel}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying payment archives")
	}
	archives := make([]archive.PaymentArchive, 0)
	if err = cursor.All(ctx, &archives); err != nil {
		return nil, errors.Wrap(err, "decoding payment archives")
	}
	return archives, nil
}

func (repo *archiveRepository) ArchiveStatsByYear(ctx context.Context, yearLabel string) (archive.Stats, error) {
	cursor, err := repo.students.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"annee_scolaire": yearLabel}}},
		{{Key: "$group", Value: bson.M{"_id": "$decision", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return archive.Stats{}, errors.Wrap(err, "aggregating archive stats")
	}
	var groups []struct {
		Decision archive.Decision `bson:"_id"`
		Count    int              `bson:"count"`
	}
	if err = cursor.All(ctx, &groups); err != nil {
		return archive.Stats{}, errors.Wrap(err, "decoding archive stats")
	}

	var stats archive.Stats
	for _, g := range groups {
		stats.TotalStudents += g.Count
		switch g.Decision {
		case archive.DecisionAdmitted:
			stats.Admitted = g.Count
		case archive.DecisionRepeat:
			stats.Repeating = g.Count
		case archive.DecisionExiting:
			stats.Exiting = g.Count
		}
	}
	return stats, nil
}
