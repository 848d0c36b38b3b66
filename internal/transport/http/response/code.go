package response

import (
	"net/http"

	"profile-service/internal/domain"
)

// StatusMap maps every domain code to its HTTP status.
var StatusMap = map[domain.ErrorCode]int{
	domain.CodeValidation:           http.StatusBadRequest,
	domain.CodeDuplicateEmail:       http.StatusBadRequest,
	domain.CodeInvalidCredentials:   http.StatusUnauthorized,
	domain.CodeUnauthenticated:      http.StatusUnauthorized,
	domain.CodeOldPasswordIncorrect: http.StatusBadRequest,
	domain.CodeNotFound:             http.StatusNotFound,
	domain.CodeStoreUnavailable:     http.StatusServiceUnavailable,
	domain.CodeServerBusy:           http.StatusServiceUnavailable,
	domain.CodeInternal:             http.StatusInternalServerError,
}

func StatusOf(code domain.ErrorCode) int {
	if s, ok := StatusMap[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
