package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/juanwalsh/backendtest/pkg/money"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type launchGameRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	GameID int64 `json:"gameId" validate:"required,gt=0"`
}

type balanceRequest struct {
	Token string `json:"token" validate:"required,uuid4"`
}

type walletTxRequest struct {
	Token         string `json:"token" validate:"required,uuid4"`
	Amount        string `json:"amount" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
}

type rollbackRequest struct {
	walletTxRequest
	OriginalTransactionID string `json:"originalTransactionId" validate:"required"`
}

type providerLaunchRequest struct {
	Token  string `json:"token" validate:"required,uuid4"`
	UserID int64  `json:"userId" validate:"required,gt=0"`
	GameID string `json:"gameId" validate:"required"`
}

type providerSimulateRequest struct {
	Token string `json:"token" validate:"required,uuid4"`
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation. On failure it writes the 400 response itself and reports
// false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "empty body")
			return false
		}

		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON")

		return false
	}

	err = validate.Struct(dst)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())

		return false
	}

	return true
}

// parsePositiveAmount enforces the wire contract for amounts: an exact
// decimal literal greater than zero.
func parsePositiveAmount(s string) (money.Amount, error) {
	amount, err := money.Parse(s)
	if err != nil {
		return money.Amount{}, err
	}

	if amount.IsZero() || amount.IsNegative() {
		return money.Amount{}, money.ErrInvalidAmount
	}

	return amount, nil
}
