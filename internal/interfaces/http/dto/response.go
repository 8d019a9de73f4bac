// Package dto defines the HTTP request and response shapes.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "textbook-assistant-api/pkg/errors"
	"textbook-assistant-api/pkg/logger"
)

// Response is the uniform envelope for every endpoint.
type Response struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// RequestIDKey is the gin context key the request id middleware sets.
const RequestIDKey = "request_id"

func requestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      string(apperrors.CodeSuccess),
		Message:   "ok",
		Data:      data,
		RequestID: requestID(c),
	})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:      string(apperrors.CodeSuccess),
		Message:   "ok",
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error maps err to the envelope and the right HTTP status.
func Error(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.FullPath(), "code", string(appErr.Code))
	}
	c.JSON(appErr.HTTPStatus, Response{
		Code:      string(appErr.Code),
		Message:   appErr.Message,
		Detail:    appErr.Detail,
		RequestID: requestID(c),
	})
}

// BadRequest writes a 400 for malformed request bodies.
func BadRequest(c *gin.Context, err error) {
	Error(c, apperrors.New(apperrors.CodeInvalidParam, "invalid request body").WithError(err))
}
