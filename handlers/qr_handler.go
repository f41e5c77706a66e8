package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"image/png"

	"github.com/skip2/go-qrcode"

	"mybank-server/services"
)

// QRHandler serves transfer-target QR codes so a payer can scan an account
// instead of typing branch and number.
type QRHandler struct {
	service *services.AccountService
}

func NewQRHandler(service *services.AccountService) *QRHandler {
	return &QRHandler{
		service: service,
	}
}

func (h *QRHandler) GetTransferQR(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "conta")
	if !ok {
		return
	}

	account, err := h.service.FindAccount(r.Context(), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	qrData := fmt.Sprintf("mybank://transferencia?agencia=%d&conta=%d", account.Branch, account.Number)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"qrCodeData": qrData,
		"conta":      account.Number,
		"agencia":    account.Branch,
		"nome":       account.Name,
	})
}

func (h *QRHandler) GetTransferQRImage(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "conta")
	if !ok {
		return
	}

	account, err := h.service.FindAccount(r.Context(), number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	qrData := fmt.Sprintf("mybank://transferencia?agencia=%d&conta=%d", account.Branch, account.Number)

	qr, err := qrcode.New(qrData, qrcode.Medium)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"qr-%d-%d.png\"", account.Branch, account.Number))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
