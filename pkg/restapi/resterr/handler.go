/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"
)

var logger = log.New("rest-err")

// HTTPErrorHandler renders any error raised by a handler into the error
// envelope. Wire it into echo.Echo.HTTPErrorHandler.
func HTTPErrorHandler(err error, c echo.Context) {
	code, message := processError(err)

	logger.Error("HTTP error handler", log.WithError(err), log.WithHTTPStatus(code))

	sendResponse(c, code, message)
}

func processError(err error) (int, interface{}) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code, message := httpErr.Code, httpErr.Message

		if strMsg, ok := message.(string); ok {
			message = map[string]interface{}{
				"message": strMsg,
			}
		}

		return code, message
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.HTTPCodeMsg()
	}

	return http.StatusInternalServerError, map[string]interface{}{
		"code":    "generic-error",
		"message": err.Error(),
	}
}

func sendResponse(c echo.Context, code int, message interface{}) {
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(code); err != nil {
			logger.Error("respond with no content", log.WithError(err))
		}

		return
	}

	if err := c.JSON(code, message); err != nil {
		logger.Error("write error response", log.WithError(err))
	}
}
