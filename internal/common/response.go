package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON envelope for error responses.
type ErrorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details,omitempty"`
	} `json:"error"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes err as an error envelope. Non-AppError values collapse to a
// generic internal error so provider detail never reaches the client.
func JSONError(w http.ResponseWriter, err error) {
	appErr, ok := IsAppError(err)
	if !ok {
		appErr = ErrInternal(err)
	}
	var body ErrorBody
	body.Error.Code = appErr.Code
	body.Error.Message = appErr.Message
	body.Error.Details = appErr.Details
	JSON(w, appErr.HTTPStatus, body)
}
