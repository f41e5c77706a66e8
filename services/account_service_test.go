package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"mybank-server/models"
	"mybank-server/repository/inmem"
	"mybank-server/services"
)

func newTestService(accounts ...models.Account) (*services.AccountService, *inmem.AccountStoreInmem) {
	store := inmem.NewInmem().(*inmem.AccountStoreInmem)
	store.Seed(accounts...)
	return services.NewAccountService(store), store
}

func balanceOf(t *testing.T, svc *services.AccountService, branch, number int) float64 {
	t.Helper()
	account, err := svc.FindAccountAt(context.Background(), branch, number)
	if err != nil {
		t.Fatalf("FindAccountAt(%d, %d): %v", branch, number, err)
	}
	return account.Balance
}

func TestDeposit(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
	)
	ctx := context.Background()

	account, err := svc.Deposit(ctx, 1, 1001, 50)
	assert.NoError(t, err)
	assert.Equal(t, 150.0, account.Balance)

	// zero deposit is allowed
	account, err = svc.Deposit(ctx, 1, 1001, 0)
	assert.NoError(t, err)
	assert.Equal(t, 150.0, account.Balance)
}

func TestDepositNegativeAmount(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
	)

	_, err := svc.Deposit(context.Background(), 1, 1001, -10)
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
	assert.Equal(t, 100.0, balanceOf(t, svc, 1, 1001))
}

func TestDepositUnknownAccount(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Deposit(context.Background(), 1, 9999, 10)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestWithdrawChargesFee(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 150},
	)

	receipt, err := svc.Withdraw(context.Background(), 1, 1001, 30, true)
	assert.NoError(t, err)
	assert.Equal(t, services.WithdrawalFee, receipt.Fee)
	assert.Equal(t, 119.0, receipt.Account.Balance)
}

func TestWithdrawWithoutFeeRestoresDeposit(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
	)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, 1, 1001, 42)
	assert.NoError(t, err)

	receipt, err := svc.Withdraw(ctx, 1, 1001, 42, false)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, receipt.Fee)
	assert.Equal(t, 100.0, receipt.Account.Balance)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 30},
	)

	// 30 + 1 fee exceeds the balance of 30
	_, err := svc.Withdraw(context.Background(), 1, 1001, 30, true)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	assert.Equal(t, 30.0, balanceOf(t, svc, 1, 1001))

	// without the fee the same amount clears
	receipt, err := svc.Withdraw(context.Background(), 1, 1001, 30, false)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, receipt.Account.Balance)
}

func TestWithdrawUnknownAccount(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 30},
	)

	_, err := svc.Withdraw(context.Background(), 2, 1001, 10, true)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
	assert.NotErrorIs(t, err, services.ErrInsufficientFunds)
}

func TestTransferCrossBranch(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 119},
		models.Account{Branch: 2, Number: 2001, Name: "Bruno", Balance: 20},
	)
	ctx := context.Background()

	source, err := svc.FindAccount(ctx, 1001)
	assert.NoError(t, err)
	dest, err := svc.FindAccount(ctx, 2001)
	assert.NoError(t, err)

	receipt, err := svc.Transfer(ctx, source, dest, 50)
	assert.NoError(t, err)
	assert.Equal(t, services.TransferFee, receipt.Fee)
	// debit is amount plus fee, credit is the bare amount
	assert.Equal(t, 61.0, receipt.Debited.Balance)
	assert.Equal(t, 70.0, receipt.Credited.Balance)
}

func TestTransferSameBranchHasNoFee(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
		models.Account{Branch: 1, Number: 1002, Name: "Bruno", Balance: 0},
	)
	ctx := context.Background()

	source, _ := svc.FindAccountAt(ctx, 1, 1001)
	dest, _ := svc.FindAccountAt(ctx, 1, 1002)

	receipt, err := svc.Transfer(ctx, source, dest, 40)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, receipt.Fee)
	assert.Equal(t, 60.0, receipt.Debited.Balance)
	assert.Equal(t, 40.0, receipt.Credited.Balance)
}

func TestTransferInsufficientFunds(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 50},
		models.Account{Branch: 2, Number: 2001, Name: "Bruno", Balance: 0},
	)
	ctx := context.Background()

	source, _ := svc.FindAccountAt(ctx, 1, 1001)
	dest, _ := svc.FindAccountAt(ctx, 2, 2001)

	// 50 + 8 fee > 50
	_, err := svc.Transfer(ctx, source, dest, 50)
	assert.ErrorIs(t, err, services.ErrTransferFailed)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)
	assert.Equal(t, 50.0, balanceOf(t, svc, 1, 1001))
	assert.Equal(t, 0.0, balanceOf(t, svc, 2, 2001))
}

func TestBranchInfo(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
		models.Account{Branch: 1, Number: 1002, Name: "Bruno", Balance: 50},
		models.Account{Branch: 2, Number: 2001, Name: "Carla", Balance: 999},
	)

	info, err := svc.BranchInfo(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), info.Count)
	assert.Equal(t, 150.0, info.Sum)
	assert.Equal(t, 75.0, info.Average)
}

func TestBranchInfoEmptyBranch(t *testing.T) {
	svc, _ := newTestService()

	info, err := svc.BranchInfo(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), info.Count)
	assert.Equal(t, 0.0, info.Sum)
	assert.Equal(t, 0.0, info.Average)
}

func TestHighestBalancesOrderAndTieBreak(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Carla", Balance: 300},
		models.Account{Branch: 2, Number: 2001, Name: "Ana", Balance: 300},
		models.Account{Branch: 3, Number: 3001, Name: "Bruno", Balance: 500},
		models.Account{Branch: 4, Number: 4001, Name: "Davi", Balance: 10},
	)

	accounts, err := svc.HighestBalances(context.Background(), 3)
	assert.NoError(t, err)
	assert.Len(t, accounts, 3)
	assert.Equal(t, "Bruno", accounts[0].Name)
	// equal balances ordered by name ascending
	assert.Equal(t, "Ana", accounts[1].Name)
	assert.Equal(t, "Carla", accounts[2].Name)
}

func TestLowestBalances(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 300},
		models.Account{Branch: 2, Number: 2001, Name: "Bruno", Balance: 5},
		models.Account{Branch: 3, Number: 3001, Name: "Carla", Balance: 40},
	)

	accounts, err := svc.LowestBalances(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, 5.0, accounts[0].Balance)
	assert.Equal(t, 40.0, accounts[1].Balance)
}

func TestRankedBalancesInvalidLimit(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.HighestBalances(context.Background(), 0)
	assert.ErrorIs(t, err, services.ErrInvalidLimit)

	_, err = svc.LowestBalances(context.Background(), -3)
	assert.ErrorIs(t, err, services.ErrInvalidLimit)
}

func TestPromoteTopClients(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
		models.Account{Branch: 1, Number: 1002, Name: "Bruno", Balance: 900},
		models.Account{Branch: 2, Number: 2001, Name: "Carla", Balance: 50},
		models.Account{Branch: 2, Number: 2002, Name: "Davi", Balance: 50},
		models.Account{Branch: 99, Number: 9901, Name: "Eva", Balance: 10},
	)
	ctx := context.Background()

	receipt, err := svc.PromoteTopClients(ctx, services.PrimeBranch)
	assert.NoError(t, err)

	// one client per non-prime branch
	assert.Len(t, receipt.Original, 2)
	assert.Len(t, receipt.Updated, 2)

	// snapshot keeps the pre-move branches
	assert.Equal(t, 1, receipt.Original[0].Branch)
	assert.Equal(t, "Bruno", receipt.Original[0].Name)
	assert.Equal(t, 2, receipt.Original[1].Branch)
	// branch 2 tie broken by name ascending
	assert.Equal(t, "Carla", receipt.Original[1].Name)

	for _, account := range receipt.Updated {
		assert.Equal(t, services.PrimeBranch, account.Branch)
	}
	assert.Equal(t, int64(2), receipt.Result.MatchedCount)
	assert.Equal(t, int64(2), receipt.Result.ModifiedCount)

	// the store reflects the move
	info, err := svc.BranchInfo(ctx, services.PrimeBranch)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), info.Count)
	// the non-promoted account stays behind untouched
	assert.Equal(t, 100.0, balanceOf(t, svc, 1, 1001))
}

func TestPromoteTopClientsNothingToPromote(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 99, Number: 9901, Name: "Eva", Balance: 10},
	)

	_, err := svc.PromoteTopClients(context.Background(), services.PrimeBranch)
	assert.ErrorIs(t, err, services.ErrPromotionFailed)
}

func TestRemoveAccount(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
		models.Account{Branch: 1, Number: 1002, Name: "Bruno", Balance: 200},
	)

	receipt, err := svc.RemoveAccount(context.Background(), 1, 1001)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), receipt.CountBefore)
	assert.Equal(t, int64(1), receipt.CountAfter)
	assert.Equal(t, "Ana", receipt.Account.Name)
	assert.Equal(t, 100.0, receipt.Account.Balance)

	_, err = svc.FindAccountAt(context.Background(), 1, 1001)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestRemoveAccountUnknown(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 100},
	)

	_, err := svc.RemoveAccount(context.Background(), 1, 9999)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)

	_, err = svc.RemoveAccount(context.Background(), 5, 1001)
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestCreateAccount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	account := &models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 10}
	assert.NoError(t, svc.CreateAccount(ctx, account))
	assert.False(t, account.ID.IsZero())

	err := svc.CreateAccount(ctx, &models.Account{Branch: 1, Number: 1002, Name: "Bruno", Balance: -1})
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	err = svc.CreateAccount(ctx, &models.Account{Branch: 1, Number: 1003, Balance: 1})
	assert.Error(t, err)
}

func TestBalancesNeverNegative(t *testing.T) {
	svc, _ := newTestService(
		models.Account{Branch: 1, Number: 1001, Name: "Ana", Balance: 10},
	)
	ctx := context.Background()

	for _, amount := range []float64{10, 9.5} {
		_, err := svc.Withdraw(ctx, 1, 1001, amount, true)
		assert.True(t, errors.Is(err, services.ErrInsufficientFunds), "amount %v: %v", amount, err)
		assert.Equal(t, 10.0, balanceOf(t, svc, 1, 1001))
	}
}
