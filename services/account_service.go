package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mybank-server/models"
	"mybank-server/repository"
)

// Fixed fees in currency units.
const (
	WithdrawalFee float64 = 1
	TransferFee   float64 = 8
)

// PrimeBranch receives promoted top-balance clients.
const PrimeBranch = 99

// AccountService implements the account transaction engine, branch
// aggregation and the prime-branch promotion workflow on top of an
// AccountStore.
type AccountService struct {
	store repository.AccountStore
}

func NewAccountService(store repository.AccountStore) *AccountService {
	return &AccountService{
		store: store,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.Balance < 0 {
		return ErrInvalidAmount
	}
	if account.Name == "" {
		return errors.New("account name is required")
	}
	return s.store.Insert(ctx, account)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.store.FindAll(ctx)
}

// FindAccount looks an account up by number alone. Numbers are only unique
// per branch; without a branch the first match wins, as the legacy API did.
func (s *AccountService) FindAccount(ctx context.Context, number int) (*models.Account, error) {
	account, err := s.store.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: conta %d", ErrAccountNotFound, number)
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) FindAccountAt(ctx context.Context, branch, number int) (*models.Account, error) {
	account, err := s.store.FindOne(ctx, branch, number)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: agencia %d conta %d", ErrAccountNotFound, branch, number)
		}
		return nil, err
	}
	return account, nil
}

// Deposit credits amount to the account in one atomic increment and returns
// the post-update snapshot.
func (s *AccountService) Deposit(ctx context.Context, branch, number int, amount float64) (*models.Account, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	account, err := s.store.IncrementBalance(ctx, branch, number, amount)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: agencia %d conta %d", ErrAccountNotFound, branch, number)
		}
		return nil, err
	}
	return account, nil
}

// Withdraw debits amount plus the withdrawal fee (when chargeFee is set).
// The sufficiency check and the debit are a single conditional update, so a
// concurrent withdrawal cannot drive the balance negative.
func (s *AccountService) Withdraw(ctx context.Context, branch, number int, amount float64, chargeFee bool) (*models.WithdrawalReceipt, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}

	var fee float64
	if chargeFee {
		fee = WithdrawalFee
	}
	total := amount + fee

	account, err := s.store.DecrementIfSufficient(ctx, branch, number, total)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The conditional update matches neither a missing account nor
			// one with a short balance; a plain lookup tells them apart.
			if _, lookupErr := s.store.FindOne(ctx, branch, number); lookupErr != nil {
				return nil, fmt.Errorf("%w: agencia %d conta %d", ErrAccountNotFound, branch, number)
			}
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	return &models.WithdrawalReceipt{Account: account, Fee: fee}, nil
}

// Transfer moves amount from source to destination. Cross-branch transfers
// carry a fixed fee, folded into the debit; the credit is always the bare
// amount. A credit failing after a successful debit is reported, not rolled
// back.
func (s *AccountService) Transfer(ctx context.Context, source, dest *models.Account, amount float64) (*models.TransferReceipt, error) {
	var fee float64
	if source.Branch != dest.Branch {
		fee = TransferFee
	}

	debited, err := s.Withdraw(ctx, source.Branch, source.Number, amount+fee, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	credited, err := s.Deposit(ctx, dest.Branch, dest.Number, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	return &models.TransferReceipt{
		Debited:  debited.Account,
		Credited: credited,
		Fee:      fee,
	}, nil
}

// BranchInfo returns average, sum and account count for one branch. A branch
// with no accounts reports zeros.
func (s *AccountService) BranchInfo(ctx context.Context, branch int) (*models.BranchInfo, error) {
	average, err := s.store.AverageBalance(ctx, branch)
	if err != nil {
		return nil, err
	}
	sum, err := s.store.SumBalance(ctx, branch)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountByBranch(ctx, branch)
	if err != nil {
		return nil, err
	}

	return &models.BranchInfo{
		Branch:  branch,
		Count:   count,
		Sum:     sum,
		Average: average,
	}, nil
}

// LowestBalances returns up to limit accounts ordered by balance ascending.
func (s *AccountService) LowestBalances(ctx context.Context, limit int64) ([]models.Account, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	return s.store.TopByBalance(ctx, limit, false, false, nil)
}

// HighestBalances returns up to limit accounts ordered by balance
// descending, ties broken by name ascending.
func (s *AccountService) HighestBalances(ctx context.Context, limit int64) ([]models.Account, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	return s.store.TopByBalance(ctx, limit, true, false, nil)
}

// PromoteTopClients reassigns the highest-balance client of every branch
// except primeBranch to primeBranch. Per-branch selection is sequential;
// the reassignment itself is one bulk write.
func (s *AccountService) PromoteTopClients(ctx context.Context, primeBranch int) (*models.PromotionReceipt, error) {
	branches, err := s.store.DistinctBranches(ctx)
	if err != nil {
		return nil, err
	}

	var original []models.Account
	var ids []primitive.ObjectID
	for _, branch := range branches {
		if branch == primeBranch {
			continue
		}
		branch := branch
		top, err := s.store.TopByBalance(ctx, 1, true, true, &branch)
		if err != nil {
			return nil, err
		}
		if len(top) == 0 {
			continue
		}
		original = append(original, top[0])
		ids = append(ids, top[0].ID)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no clients to promote", ErrPromotionFailed)
	}

	result, err := s.store.ReassignBranch(ctx, ids, primeBranch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPromotionFailed, err)
	}
	if result == nil {
		return nil, ErrPromotionFailed
	}

	updated := make([]models.Account, len(original))
	copy(updated, original)
	for i := range updated {
		updated[i].Branch = primeBranch
	}

	return &models.PromotionReceipt{
		Original: original,
		Updated:  updated,
		Result:   result,
	}, nil
}

// RemoveAccount deletes the account and reports the branch's account count
// before and after the removal.
func (s *AccountService) RemoveAccount(ctx context.Context, branch, number int) (*models.RemovalReceipt, error) {
	countBefore, err := s.store.CountByBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	if countBefore == 0 {
		return nil, fmt.Errorf("%w: agencia %d has no accounts", ErrAccountNotFound, branch)
	}

	account, err := s.store.Remove(ctx, branch, number)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: agencia %d conta %d", ErrAccountNotFound, branch, number)
		}
		return nil, err
	}

	countAfter, err := s.store.CountByBranch(ctx, branch)
	if err != nil {
		return nil, err
	}

	return &models.RemovalReceipt{
		Account:     account,
		CountBefore: countBefore,
		CountAfter:  countAfter,
	}, nil
}
