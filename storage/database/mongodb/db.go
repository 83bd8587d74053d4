package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/shule/core"
)

// collection names
const (
	colSchoolYears     = "annees_scolaires"
	colStudents        = "etudiants"
	colTeachers        = "enseignants"
	colGrades          = "notes"
	colPayments        = "paiements"
	colStudentArchives = "archives_etudiants"
	colPaymentArchives = "archives_paiements"
	colUsers           = "users"
)

// Open connects to the database and waits for it to be ready.
// Waits 100ms longer between each attempt.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}

	if err = ping(ctx, client); err != nil {
		return nil, err
	}

	db := client.Database(conf.Database.Name)
	if err = ensureIndexes(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// ensureIndexes creates the unique and lookup indexes the repositories rely
// on. Safe to call on every startup.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(colSchoolYears).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "annee_label", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "est_active", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "creating school year indexes")
	}

	_, err = db.Collection(colStudents).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "numero_matricule", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "annee_scolaire", Value: 1}}},
		{Keys: bson.D{{Key: "classe", Value: 1}}},
		{Keys: bson.D{{Key: "nom", Value: 1}, {Key: "prenom", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "creating student indexes")
	}

	_, err = db.Collection(colGrades).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "numero_matricule", Value: 1}, {Key: "annee_scolaire", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "creating grade indexes")
	}

	_, err = db.Collection(colPayments).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "numero_matricule", Value: 1},
				{Key: "mois", Value: 1},
				{Key: "annee", Value: 1},
				{Key: "type_paiement", Value: 1},
			},
			Options: unique,
		},
		{Keys: bson.D{{Key: "annee_scolaire", Value: 1}}},
		{Keys: bson.D{{Key: "annee", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "creating payment indexes")
	}

	_, err = db.Collection(colStudentArchives).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "annee_scolaire", Value: 1}, {Key: "numero_matricule", Value: 1}}},
		{Keys: bson.D{{Key: "annee_scolaire", Value: 1}, {Key: "decision", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "creating student archive indexes")
	}

	_, err = db.Collection(colPaymentArchives).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "annee_scolaire", Value: 1}}},
	})
	if err != nil {
		return errors.Wrap(err, "creating payment archive indexes")
	}

	_, err = db.Collection(colUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return errors.Wrap(err, "creating user indexes")
	}
	return nil
}
