package restapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/identity"
	"github.com/gohornet/tally/pkg/model/poll"
)

const (
	// ParameterPollID is used to identify a poll by its ID.
	ParameterPollID = "pollID"

	// ParameterIdentity is used to identify a voter.
	ParameterIdentity = "identity"

	// QueryParameterPageSize is used to limit the number of returned results.
	QueryParameterPageSize = "pageSize"
)

var (
	// ErrInvalidParameter defines the invalid parameter error.
	ErrInvalidParameter = echo.NewHTTPError(http.StatusBadRequest, "invalid parameter")
)

// JSONResponse sends the JSON response with status code.
func JSONResponse(c echo.Context, statusCode int, result interface{}) error {
	return c.JSON(statusCode, result)
}

// HTTPErrorResponse defines the error struct for the HTTPErrorResponseEnvelope.
type HTTPErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPErrorResponseEnvelope defines the error response schema for node API responses.
type HTTPErrorResponseEnvelope struct {
	Error HTTPErrorResponse `json:"error"`
}

// ErrorHandler writes every error as HTTPErrorResponseEnvelope.
// The onError callback is called before the response is written and may be nil.
func ErrorHandler(onError func(err error)) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if onError != nil {
			onError(err)
		}

		var statusCode int
		var message string

		var e *echo.HTTPError
		if errors.As(err, &e) {
			statusCode = e.Code
			message = fmt.Sprintf("%s, error: %s", e.Message, err)
		} else {
			statusCode = http.StatusInternalServerError
			message = fmt.Sprintf("internal server error. error: %s", err)
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(statusCode)
			return
		}

		_ = c.JSON(statusCode, HTTPErrorResponseEnvelope{Error: HTTPErrorResponse{Code: strconv.Itoa(statusCode), Message: message}})
	}
}

func ParsePollIDParam(c echo.Context) (poll.PollID, error) {
	pollIDParam := strings.TrimSpace(c.Param(ParameterPollID))

	pollID, err := poll.ParsePollID(pollIDParam)
	if err != nil {
		return 0, errors.WithMessagef(ErrInvalidParameter, "invalid poll ID: %s, error: %s", pollIDParam, err)
	}
	return pollID, nil
}

func ParseIdentityParam(c echo.Context) (identity.Identity, error) {
	identityParam := strings.ToLower(strings.TrimSpace(c.Param(ParameterIdentity)))

	id, err := identity.ParseIdentity(identityParam)
	if err != nil {
		return identity.Identity{}, errors.WithMessagef(ErrInvalidParameter, "invalid identity: %s, error: %s", identityParam, err)
	}
	return id, nil
}

// ParsePageSizeQueryParam parses the page size. It is capped at maxPageSize and defaults to it.
func ParsePageSizeQueryParam(c echo.Context, maxPageSize int) (int, error) {
	pageSizeParam := strings.TrimSpace(c.QueryParam(QueryParameterPageSize))
	if pageSizeParam == "" {
		return maxPageSize, nil
	}

	pageSize, err := strconv.Atoi(pageSizeParam)
	if err != nil || pageSize < 1 {
		return 0, errors.WithMessagef(ErrInvalidParameter, "invalid page size: %s", pageSizeParam)
	}

	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, nil
}
