package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mybank-server/models"
	"mybank-server/services"
	"mybank-server/utils"
)

type AccountHandler struct {
	service *services.AccountService
}

func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{
		service: service,
	}
}

func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var accountRequest models.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&accountRequest); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account := accountRequest.ToAccount()
	if err := h.service.CreateAccount(r.Context(), account); err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			writeError(w, http.StatusBadRequest, "Account balance cannot be negative")
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) FindAccount(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "conta")
	if !ok {
		return
	}

	account, err := h.service.FindAccount(r.Context(), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.service.Deposit(r.Context(), req.Branch, req.Number, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mensagem":      "Depósito realizado com sucesso!",
		"valorDeposito": utils.ToMoney(req.Amount),
		"saldoAnterior": utils.ToMoney(account.Balance - req.Amount),
		"conta":         account.Number,
		"agencia":       account.Branch,
		"nome":          account.Name,
		"saldoAtual":    utils.ToMoney(account.Balance),
	})
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.service.Withdraw(r.Context(), req.Branch, req.Number, req.Amount, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	account := receipt.Account
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mensagem":      "Saque realizado com sucesso!",
		"conta":         account.Number,
		"agencia":       account.Branch,
		"nome":          account.Name,
		"saldoAnterior": utils.ToMoney(account.Balance + req.Amount + receipt.Fee),
		"valorSaque":    utils.ToMoney(req.Amount),
		"tarifa":        utils.ToMoney(receipt.Fee),
		"saldoAtual":    utils.ToMoney(account.Balance),
	})
}

func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	source, err := h.service.FindAccount(r.Context(), req.SourceNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dest, err := h.service.FindAccount(r.Context(), req.DestNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	receipt, err := h.service.Transfer(r.Context(), source, dest, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"detalhes": map[string]interface{}{
			"mensagem": "Transferência realizada com sucesso!",
			"contaDestino": map[string]interface{}{
				"nome":       receipt.Credited.Name,
				"conta":      receipt.Credited.Number,
				"agencia":    receipt.Credited.Branch,
				"saldoAtual": utils.ToMoney(receipt.Credited.Balance),
			},
			"valorTransferencia":    utils.ToMoney(req.Amount),
			"tarifa":                utils.ToMoney(receipt.Fee),
			"totalDebitadoOrigem":   utils.ToMoney(req.Amount + receipt.Fee),
			"totalCreditadoDestino": utils.ToMoney(req.Amount),
		},
		"contaOrigem": map[string]interface{}{
			"nome":       receipt.Debited.Name,
			"conta":      receipt.Debited.Number,
			"agencia":    receipt.Debited.Branch,
			"saldoAtual": utils.ToMoney(receipt.Debited.Balance),
		},
	})
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	branch, ok := pathInt(w, r, "agencia")
	if !ok {
		return
	}
	number, ok := pathInt(w, r, "conta")
	if !ok {
		return
	}

	account, err := h.service.FindAccountAt(r.Context(), branch, number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nome":       account.Name,
		"conta":      account.Number,
		"agencia":    account.Branch,
		"saldoAtual": utils.ToMoney(account.Balance),
	})
}

func (h *AccountHandler) GetBranchInfo(w http.ResponseWriter, r *http.Request) {
	branch, ok := pathInt(w, r, "agencia")
	if !ok {
		return
	}

	info, err := h.service.BranchInfo(r.Context(), branch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agencia":                 info.Branch,
		"totalClientes":           info.Count,
		"SomatorioSaldosClientes": utils.ToMoney(info.Sum),
		"MediaSaldosCliente":      utils.ToMoney(info.Average),
	})
}

func (h *AccountHandler) GetLowestBalances(w http.ResponseWriter, r *http.Request) {
	h.writeRankedBalances(w, r, false)
}

func (h *AccountHandler) GetHighestBalances(w http.ResponseWriter, r *http.Request) {
	h.writeRankedBalances(w, r, true)
}

func (h *AccountHandler) writeRankedBalances(w http.ResponseWriter, r *http.Request, descending bool) {
	limit, ok := pathInt(w, r, "limit")
	if !ok {
		return
	}

	var accounts []models.Account
	var err error
	if descending {
		accounts, err = h.service.HighestBalances(r.Context(), int64(limit))
	} else {
		accounts, err = h.service.LowestBalances(r.Context(), int64(limit))
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	ranked := make([]map[string]interface{}, 0, len(accounts))
	for _, account := range accounts {
		ranked = append(ranked, map[string]interface{}{
			"agencia": account.Branch,
			"conta":   account.Number,
			"nome":    account.Name,
			"saldo":   utils.ToMoney(account.Balance),
		})
	}

	writeJSON(w, http.StatusOK, ranked)
}

// promotedClient mirrors the legacy promotion list entry: storage identity
// plus a money-formatted balance.
type promotedClient struct {
	ID      primitive.ObjectID `json:"_id"`
	Number  int                `json:"conta"`
	Branch  int                `json:"agencia"`
	Name    string             `json:"name"`
	Balance string             `json:"balance"`
}

func (h *AccountHandler) PromoteClients(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.PromoteTopClients(r.Context(), services.PrimeBranch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"listaOriginal":   promotedClients(receipt.Original),
		"listaAtualizada": promotedClients(receipt.Updated),
		"resultado":       receipt.Result,
	})
}

func promotedClients(accounts []models.Account) []promotedClient {
	clients := make([]promotedClient, 0, len(accounts))
	for _, account := range accounts {
		clients = append(clients, promotedClient{
			ID:      account.ID,
			Number:  account.Number,
			Branch:  account.Branch,
			Name:    account.Name,
			Balance: utils.ToMoney(account.Balance),
		})
	}
	return clients
}

func (h *AccountHandler) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	var req models.RemovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.service.RemoveAccount(r.Context(), req.Branch, req.Number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"detalhes": map[string]interface{}{
			"mensagem":                 "Conta excluída com sucesso!",
			"totalContasAgenciaInicio": receipt.CountBefore,
			"totalContasAgenciaFinal":  receipt.CountAfter,
			"conta":                    receipt.Account.Number,
			"agencia":                  receipt.Account.Branch,
			"nome":                     receipt.Account.Name,
			"saldo":                    utils.ToMoney(receipt.Account.Balance),
		},
		"contasAtivasAgencia": receipt.CountAfter,
	})
}

// pathInt reads an integer path variable, answering 400 when it does not
// parse.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return value, true
}
