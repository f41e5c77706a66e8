package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"mybank-server/handlers"
	"mybank-server/services"
)

func SetupRoutes(accountService *services.AccountService) http.Handler {
	router := mux.NewRouter()

	accountHandler := handlers.NewAccountHandler(accountService)
	qrHandler := handlers.NewQRHandler(accountService)

	// Account routes
	router.HandleFunc("/accounts", accountHandler.GetAccounts).Methods("GET")
	router.HandleFunc("/accounts", accountHandler.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts/{conta:[0-9]+}", accountHandler.FindAccount).Methods("GET")
	router.HandleFunc("/accounts/{conta:[0-9]+}/qr", qrHandler.GetTransferQR).Methods("GET")
	router.HandleFunc("/accounts/{conta:[0-9]+}/qr/image", qrHandler.GetTransferQRImage).Methods("GET")

	// Transaction routes
	router.HandleFunc("/deposito", accountHandler.Deposit).Methods("PATCH")
	router.HandleFunc("/saque", accountHandler.Withdraw).Methods("PATCH")
	router.HandleFunc("/transferencia", accountHandler.Transfer).Methods("PATCH")
	router.HandleFunc("/saldo/{agencia}/{conta}", accountHandler.GetBalance).Methods("GET")

	// Branch routes
	router.HandleFunc("/agencia/info/{agencia}", accountHandler.GetBranchInfo).Methods("GET")
	router.HandleFunc("/agencia/menores_saldos/{limit}", accountHandler.GetLowestBalances).Methods("GET")
	router.HandleFunc("/agencia/maiores_saldos/{limit}", accountHandler.GetHighestBalances).Methods("GET")

	// Prime-branch promotion
	router.HandleFunc("/transferencia/clientes_prime", accountHandler.PromoteClients).Methods("PATCH")

	// Account removal
	router.HandleFunc("/excluir/conta", accountHandler.RemoveAccount).Methods("DELETE")

	// Health check
	router.HandleFunc("/health", healthCheck).Methods("GET")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"database":  "mongodb",
	}
	json.NewEncoder(w).Encode(response)
}
