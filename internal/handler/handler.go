package handler

import (
	"net/http"
	"strconv"

	"github.com/tomiwa/kudi/internal/errHandler"
	"github.com/tomiwa/kudi/internal/ledger"
	"github.com/tomiwa/kudi/internal/response"
)

type queryStringValues struct {
	Limit  int
	Offset int
}

func retrieveUrlQueryValues(r *http.Request) *queryStringValues {
	var queryValues = &queryStringValues{}

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("page")

	// Default pagination values
	offset := 0
	limit := 10

	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	queryValues.Limit = limit

	if offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 1 {
			offset = (parsedOffset - 1) * limit
		}
	}
	queryValues.Offset = offset

	return queryValues
}

// parsePathID reads a positive integer path value such as {id}.
func parsePathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// failureStatus maps an engine failure code to the HTTP status the caller
// sees. This mapping is transport policy; the engine itself only knows codes.
func failureStatus(code string) int {
	switch code {
	case ledger.CodeInvalidAmount, ledger.CodeInvalidTransfer:
		return http.StatusBadRequest
	case ledger.CodeWalletNotFound:
		return http.StatusNotFound
	case ledger.CodeLimitExceeded, ledger.CodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case ledger.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeOperationResult renders the engine's result variant as the standard
// response envelope. Callers must not have written to w yet.
func writeOperationResult(w http.ResponseWriter, r *http.Request, errs *errHandler.ErrorHandler, result ledger.OperationResult) {
	var err error

	switch res := result.(type) {
	case ledger.Success:
		data := map[string]any{
			"transaction_id": res.TransactionID,
		}
		err = response.JSONOkResponse(w, data, res.Message, nil)

	case ledger.Balance:
		data := map[string]any{
			"wallet_id": res.WalletID,
			"balance":   res.Balance,
		}
		err = response.JSONOkResponse(w, data, res.Message, nil)

	case ledger.Failure:
		data := map[string]any{
			"error_code": res.Code,
		}
		err = response.JSONErrorResponse(w, data, res.Reason, failureStatus(res.Code), nil)
	}

	if err != nil {
		errs.ServerError(w, r, err)
	}
}
