package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwulff/campuscast/internal/console"
	"github.com/jwulff/campuscast/internal/storage"
)

// Response is the envelope of every API answer.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "ok", Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: "created", Data: data})
}

// Fail writes an error response and aborts the chain.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}

// FailErr maps a service error onto a status code.
func FailErr(c *gin.Context, err error) {
	var nf storage.ErrNotFound
	switch {
	case errors.As(err, &nf):
		Fail(c, http.StatusNotFound, err.Error())
	case console.IsValidation(err):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, console.ErrInvalidPassphrase):
		Fail(c, http.StatusUnauthorized, err.Error())
	default:
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, "internal error")
	}
}
