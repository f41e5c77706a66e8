package repository

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mybank-server/models"
)

// AccountRepository is the Mongo-backed AccountStore over the accounts
// collection.
type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(collection *mongo.Collection) *AccountRepository {
	return &AccountRepository{
		collection: collection,
	}
}

func (r *AccountRepository) Insert(ctx context.Context, account *models.Account) error {
	result, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid
	}
	return nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []models.Account
	for cursor.Next(ctx) {
		var account models.Account
		if err := cursor.Decode(&account); err != nil {
			log.Printf("Error decoding account: %v", err)
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, cursor.Err()
}

func (r *AccountRepository) FindByNumber(ctx context.Context, number int) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"conta": number}).Decode(&account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) FindOne(ctx context.Context, branch, number int) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, accountFilter(branch, number)).Decode(&account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) IncrementBalance(ctx context.Context, branch, number int, delta float64) (*models.Account, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"balance": delta}}

	var account models.Account
	err := r.collection.FindOneAndUpdate(ctx, accountFilter(branch, number), update, opts).Decode(&account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) DecrementIfSufficient(ctx context.Context, branch, number int, total float64) (*models.Account, error) {
	// The balance guard rides in the filter so check and debit are one
	// atomic findOneAndUpdate; the balance can never go negative.
	filter := bson.M{
		"agencia": branch,
		"conta":   number,
		"balance": bson.M{"$gte": total},
	}
	update := bson.M{"$inc": bson.M{"balance": -total}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var account models.Account
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *AccountRepository) TopByBalance(ctx context.Context, limit int64, descending, includeID bool, branch *int) ([]models.Account, error) {
	projectID := 0
	if includeID {
		projectID = 1
	}
	sort := bson.D{{Key: "balance", Value: 1}}
	if descending {
		sort = bson.D{{Key: "balance", Value: -1}, {Key: "name", Value: 1}}
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": projectID, "agencia": 1, "conta": 1, "name": 1, "balance": 1}).
		SetSort(sort).
		SetLimit(limit)

	filter := bson.M{}
	if branch != nil {
		filter["agencia"] = *branch
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []models.Account
	for cursor.Next(ctx) {
		var account models.Account
		if err := cursor.Decode(&account); err != nil {
			log.Printf("Error decoding account: %v", err)
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, cursor.Err()
}

func (r *AccountRepository) AverageBalance(ctx context.Context, branch int) (float64, error) {
	return r.groupBalance(ctx, branch, "$avg")
}

func (r *AccountRepository) SumBalance(ctx context.Context, branch int) (float64, error) {
	return r.groupBalance(ctx, branch, "$sum")
}

// groupBalance runs a $match/$group pipeline over one branch. An empty
// branch yields 0 rather than an error.
func (r *AccountRepository) groupBalance(ctx context.Context, branch int, accumulator string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"agencia": branch}}},
		{{Key: "$group", Value: bson.M{"_id": "$agencia", "value": bson.M{accumulator: "$balance"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var result struct {
			Value float64 `bson:"value"`
		}
		if err := cursor.Decode(&result); err != nil {
			return 0, err
		}
		return result.Value, nil
	}

	return 0, cursor.Err()
}

func (r *AccountRepository) CountByBranch(ctx context.Context, branch int) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"agencia": branch})
}

func (r *AccountRepository) DistinctBranches(ctx context.Context) ([]int, error) {
	values, err := r.collection.Distinct(ctx, "agencia", bson.M{})
	if err != nil {
		return nil, err
	}

	branches := make([]int, 0, len(values))
	for _, value := range values {
		switch v := value.(type) {
		case int32:
			branches = append(branches, int(v))
		case int64:
			branches = append(branches, int(v))
		case float64:
			branches = append(branches, int(v))
		default:
			log.Printf("Skipping non-numeric branch value: %v", value)
		}
	}

	return branches, nil
}

func (r *AccountRepository) ReassignBranch(ctx context.Context, ids []primitive.ObjectID, branch int) (*models.BulkResult, error) {
	operations := make([]mongo.WriteModel, 0, len(ids))
	for _, id := range ids {
		operations = append(operations, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"agencia": branch}}))
	}

	result, err := r.collection.BulkWrite(ctx, operations)
	if err != nil {
		return nil, err
	}

	return &models.BulkResult{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}, nil
}

func (r *AccountRepository) Remove(ctx context.Context, branch, number int) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOneAndDelete(ctx, accountFilter(branch, number)).Decode(&account)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

func accountFilter(branch, number int) bson.M {
	return bson.M{"agencia": branch, "conta": number}
}
