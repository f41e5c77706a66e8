// Package inmem is an in-memory AccountStore used by tests. It mirrors the
// Mongo repository's observable behavior, including mongo.ErrNoDocuments on
// misses, so services and handlers can be exercised without a database.
package inmem

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mybank-server/models"
	"mybank-server/repository"
)

type AccountStoreInmem struct {
	mu       sync.RWMutex
	accounts []*models.Account
}

func NewInmem() repository.AccountStore {
	return &AccountStoreInmem{
		accounts: make([]*models.Account, 0),
	}
}

// Seed inserts accounts directly, bypassing the store API. Test helper.
func (s *AccountStoreInmem) Seed(accounts ...models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range accounts {
		account := accounts[i]
		if account.ID.IsZero() {
			account.ID = primitive.NewObjectID()
		}
		s.accounts = append(s.accounts, &account)
	}
}

func (s *AccountStoreInmem) Insert(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	stored := *account
	s.accounts = append(s.accounts, &stored)
	return nil
}

func (s *AccountStoreInmem) FindAll(ctx context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

func (s *AccountStoreInmem) FindByNumber(ctx context.Context, number int) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if account.Number == number {
			found := *account
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *AccountStoreInmem) FindOne(ctx context.Context, branch, number int) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account := s.lookup(branch, number)
	if account == nil {
		return nil, mongo.ErrNoDocuments
	}
	found := *account
	return &found, nil
}

func (s *AccountStoreInmem) IncrementBalance(ctx context.Context, branch, number int, delta float64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := s.lookup(branch, number)
	if account == nil {
		return nil, mongo.ErrNoDocuments
	}
	account.Balance += delta
	updated := *account
	return &updated, nil
}

func (s *AccountStoreInmem) DecrementIfSufficient(ctx context.Context, branch, number int, total float64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account := s.lookup(branch, number)
	if account == nil || account.Balance < total {
		return nil, mongo.ErrNoDocuments
	}
	account.Balance -= total
	updated := *account
	return &updated, nil
}

func (s *AccountStoreInmem) TopByBalance(ctx context.Context, limit int64, descending, includeID bool, branch *int) ([]models.Account, error) {
	s.mu.RLock()
	matched := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		if branch != nil && account.Branch != *branch {
			continue
		}
		matched = append(matched, *account)
	}
	s.mu.RUnlock()

	if descending {
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Balance != matched[j].Balance {
				return matched[i].Balance > matched[j].Balance
			}
			return matched[i].Name < matched[j].Name
		})
	} else {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].Balance < matched[j].Balance
		})
	}

	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	if !includeID {
		for i := range matched {
			matched[i].ID = primitive.NilObjectID
		}
	}
	return matched, nil
}

func (s *AccountStoreInmem) AverageBalance(ctx context.Context, branch int) (float64, error) {
	sum, count := s.balanceTotals(branch)
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func (s *AccountStoreInmem) SumBalance(ctx context.Context, branch int) (float64, error) {
	sum, _ := s.balanceTotals(branch)
	return sum, nil
}

func (s *AccountStoreInmem) CountByBranch(ctx context.Context, branch int) (int64, error) {
	_, count := s.balanceTotals(branch)
	return count, nil
}

func (s *AccountStoreInmem) DistinctBranches(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int]bool)
	branches := make([]int, 0)
	for _, account := range s.accounts {
		if !seen[account.Branch] {
			seen[account.Branch] = true
			branches = append(branches, account.Branch)
		}
	}
	sort.Ints(branches)
	return branches, nil
}

func (s *AccountStoreInmem) ReassignBranch(ctx context.Context, ids []primitive.ObjectID, branch int) (*models.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := &models.BulkResult{}
	for _, id := range ids {
		for _, account := range s.accounts {
			if account.ID == id {
				result.MatchedCount++
				if account.Branch != branch {
					account.Branch = branch
					result.ModifiedCount++
				}
				break
			}
		}
	}
	return result, nil
}

func (s *AccountStoreInmem) Remove(ctx context.Context, branch, number int) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, account := range s.accounts {
		if account.Branch == branch && account.Number == number {
			removed := *account
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return &removed, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// lookup must be called with the mutex held.
func (s *AccountStoreInmem) lookup(branch, number int) *models.Account {
	for _, account := range s.accounts {
		if account.Branch == branch && account.Number == number {
			return account
		}
	}
	return nil
}

func (s *AccountStoreInmem) balanceTotals(branch int) (float64, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	var count int64
	for _, account := range s.accounts {
		if account.Branch == branch {
			sum += account.Balance
			count++
		}
	}
	return sum, count
}
