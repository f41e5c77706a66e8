package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mybank-server/models"
)

// AccountStore is the persistence boundary for accounts. The Mongo-backed
// AccountRepository is the production implementation; inmem provides one for
// tests.
type AccountStore interface {
	Insert(ctx context.Context, account *models.Account) error
	FindAll(ctx context.Context) ([]models.Account, error)

	// FindByNumber matches on the account number alone. Numbers are only
	// guaranteed unique within a branch, so this can be ambiguous when the
	// caller omits the branch; the legacy API allowed it and callers rely
	// on it.
	FindByNumber(ctx context.Context, number int) (*models.Account, error)
	FindOne(ctx context.Context, branch, number int) (*models.Account, error)

	// IncrementBalance applies a single atomic $inc to the account's
	// balance and returns the post-update document.
	IncrementBalance(ctx context.Context, branch, number int, delta float64) (*models.Account, error)

	// DecrementIfSufficient debits total from the account's balance only if
	// the resulting balance stays non-negative, as one conditional update.
	// Returns ErrNoDocuments when no account matched the filter, which the
	// caller must disambiguate between a missing account and insufficient
	// funds.
	DecrementIfSufficient(ctx context.Context, branch, number int, total float64) (*models.Account, error)

	// TopByBalance returns up to limit accounts ordered by balance.
	// Descending order breaks ties by name ascending. A nil branch means no
	// branch filter; includeID controls whether storage identities are
	// projected (needed for bulk reassignment).
	TopByBalance(ctx context.Context, limit int64, descending, includeID bool, branch *int) ([]models.Account, error)

	AverageBalance(ctx context.Context, branch int) (float64, error)
	SumBalance(ctx context.Context, branch int) (float64, error)
	CountByBranch(ctx context.Context, branch int) (int64, error)
	DistinctBranches(ctx context.Context) ([]int, error)

	// ReassignBranch moves every identified account to branch in a single
	// bulk write.
	ReassignBranch(ctx context.Context, ids []primitive.ObjectID, branch int) (*models.BulkResult, error)

	Remove(ctx context.Context, branch, number int) (*models.Account, error)
}
