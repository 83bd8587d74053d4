package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/payment"
)

type paymentRepository struct {
	col *mongo.Collection
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *mongo.Database) payment.Repository {
	return &paymentRepository{col: db.Collection(colPayments)}
}

// yearMatch matches payments on the year label OR, when yearNum > 0, on the
// numeric year.
func yearMatch(yearLabel string, yearNum int) bson.M {
	or := []bson.M{{"annee_scolaire": yearLabel}}
	if yearNum > 0 {
		or = append(or, bson.M{"annee": yearNum})
	}
	return bson.M{"$or": or}
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	pmt.ID = primitive.NewObjectID().Hex()
	if _, err := repo.col.InsertOne(ctx, pmt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return payment.Payment{}, payment.ErrPaymentExists
		}
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return pmt, nil
}

func (repo *paymentRepository) GetPaymentByID(ctx context.Context, id string) (payment.Payment, error) {
	var pmt payment.Payment
	if err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&pmt); err != nil {
		if err == mongo.ErrNoDocuments {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, errors.Wrap(err, "finding payment")
	}
	return pmt, nil
}

func (repo *paymentRepository) queryPayments(ctx context.Context, query bson.M) ([]payment.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_paiement", Value: 1}})
	cursor, err := repo.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	payments := make([]payment.Payment, 0)
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, errors.Wrap(err, "decoding payments")
	}
	return payments, nil
}

func (repo *paymentRepository) FilterPayments(ctx context.Context, filter payment.QueryFilter) ([]payment.Payment, error) {
	query := bson.M{}
	if filter.EnrollmentNumber != "" {
		query["numero_matricule"] = filter.EnrollmentNumber
	}
	if filter.YearLabel != "" {
		query["annee_scolaire"] = filter.YearLabel
	}
	if filter.Month != "" {
		query["mois"] = filter.Month
	}
	if filter.Year != 0 {
		query["annee"] = filter.Year
	}
	if filter.Type != "" {
		query["type_paiement"] = filter.Type
	}
	return repo.queryPayments(ctx, query)
}

func (repo *paymentRepository) QueryPaymentsForYear(ctx context.Context, yearLabel string, yearNum int) ([]payment.Payment, error) {
	return repo.queryPayments(ctx, yearMatch(yearLabel, yearNum))
}

func (repo *paymentRepository) UpdatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	res, err := repo.col.ReplaceOne(ctx, bson.M{"_id": pmt.ID}, pmt)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "updating payment")
	}
	if res.MatchedCount == 0 {
		return payment.Payment{}, payment.ErrNotFound
	}
	return pmt, nil
}

func (repo *paymentRepository) DeletePayment(ctx context.Context, id string) error {
	if _, err := repo.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	return nil
}

func (repo *paymentRepository) DeleteStudentPaymentsForYear(ctx context.Context, enrollmentNumber, yearLabel string, yearNum int) error {
	query := yearMatch(yearLabel, yearNum)
	query["numero_matricule"] = enrollmentNumber
	if _, err := repo.col.DeleteMany(ctx, query); err != nil {
		return errors.Wrap(err, "deleting student payments")
	}
	return nil
}

func (repo *paymentRepository) DeletePaymentsForYear(ctx context.Context, yearLabel string, yearNum int) error {
	if _, err := repo.col.DeleteMany(ctx, yearMatch(yearLabel, yearNum)); err != nil {
		return errors.Wrap(err, "deleting year payments")
	}
	return nil
}
