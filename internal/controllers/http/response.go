package http

import (
	"errors"
	"net/http"
	"strconv"

	"dealer-console/internal/domain"
	"dealer-console/internal/infra"
	"dealer-console/internal/services"

	"github.com/gin-gonic/gin"
)

// Envelope codes returned by the console. Backend business codes are passed
// through unchanged.
const (
	CodeSuccess        = infra.SuccessCode
	CodeStale          = "1001"
	CodePartialFailure = "2070"
	CodeBadRequest     = "4000"
	CodeUnauthorized   = "4010"
	CodeForbidden      = "4030"
	CodeNotFound       = "4040"
	CodeConflict       = "4090"
	CodeValidation     = "4220"
	CodeInternal       = "5000"
	CodeUpstream       = "5020"
)

type Response struct {
	Code    string `json:"code"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: CodeSuccess, Data: data, Message: "success"})
}

func fail(c *gin.Context, status int, code, message string, data any) {
	c.JSON(status, Response{Code: code, Data: data, Message: message})
}

// respond writes data, or maps err to a status and envelope code. A command
// that succeeded but could not be re-fetched still answers 200 with whatever
// data is available.
func respond(c *gin.Context, status int, data any, err error) {
	if err == nil {
		success(c, status, data)
		return
	}
	_ = c.Error(err)

	var apiErr *infra.APIError
	switch {
	case domain.IsValidation(err):
		fail(c, http.StatusUnprocessableEntity, CodeValidation, "validation failed", gin.H{"errors": domain.ValidationErrorsOf(err).Fields()})
	case errors.Is(err, services.ErrRefreshFailed):
		fail(c, status, CodeStale, err.Error(), data)
	case errors.Is(err, services.ErrBulkPartialFailure):
		fail(c, http.StatusMultiStatus, CodePartialFailure, err.Error(), data)
	case errors.Is(err, domain.ErrNotPermitted):
		fail(c, http.StatusForbidden, CodeForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrContractNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, infra.ErrNotFound):
		fail(c, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrFieldLocked):
		fail(c, http.StatusConflict, CodeConflict, err.Error(), nil)
	case errors.As(err, &apiErr):
		code := http.StatusBadRequest
		if apiErr.HTTPStatus >= http.StatusBadRequest {
			code = apiErr.HTTPStatus
		}
		envCode := apiErr.Code
		if envCode == "" {
			envCode = strconv.Itoa(apiErr.HTTPStatus)
		}
		fail(c, code, envCode, apiErr.Message, nil)
	case errors.Is(err, infra.ErrTransport):
		fail(c, http.StatusBadGateway, CodeUpstream, "a backend service is unreachable", nil)
	default:
		fail(c, http.StatusInternalServerError, CodeInternal, "internal error", nil)
	}
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	fail(c, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
}

func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, CodeBadRequest, name+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
