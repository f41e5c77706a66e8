package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a bank account. The bson/json names keep the wire
// format of the legacy "accounts" collection (agencia/conta).
type Account struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Branch  int                `bson:"agencia" json:"agencia"`
	Number  int                `bson:"conta" json:"conta"`
	Name    string             `bson:"name" json:"name"`
	Balance float64            `bson:"balance" json:"balance"`
}

// AccountRequest represents the request body for creating an account
type AccountRequest struct {
	Branch  int     `json:"agencia"`
	Number  int     `json:"conta"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// ToAccount converts AccountRequest to Account
func (ar *AccountRequest) ToAccount() *Account {
	return &Account{
		Branch:  ar.Branch,
		Number:  ar.Number,
		Name:    ar.Name,
		Balance: ar.Balance,
	}
}

// TransactionRequest represents the request body for deposits and
// withdrawals
type TransactionRequest struct {
	Branch int     `json:"agencia"`
	Number int     `json:"conta"`
	Amount float64 `json:"valor"`
}

// TransferRequest represents the request body for transfers between two
// accounts addressed by number
type TransferRequest struct {
	SourceNumber int     `json:"contaOrigem"`
	DestNumber   int     `json:"contaDestino"`
	Amount       float64 `json:"valor"`
}

// RemovalRequest represents the request body for deleting an account
type RemovalRequest struct {
	Branch int `json:"agencia"`
	Number int `json:"conta"`
}

// BulkResult summarizes a bulk branch-reassignment, independent of the
// underlying store's result type.
type BulkResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// WithdrawalReceipt carries the post-debit account and the fee that was
// actually charged.
type WithdrawalReceipt struct {
	Account *Account
	Fee     float64
}

// TransferReceipt carries both legs of a completed transfer.
type TransferReceipt struct {
	Debited  *Account
	Credited *Account
	Fee      float64
}

// BranchInfo aggregates balance statistics for one branch.
type BranchInfo struct {
	Branch  int
	Count   int64
	Sum     float64
	Average float64
}

// PromotionReceipt holds the pre-move snapshot, the reassigned accounts and
// the raw bulk-write summary of a prime-branch promotion.
type PromotionReceipt struct {
	Original []Account
	Updated  []Account
	Result   *BulkResult
}

// RemovalReceipt holds the removed account plus the branch account counts
// taken before and after the removal.
type RemovalReceipt struct {
	Account     *Account
	CountBefore int64
	CountAfter  int64
}
