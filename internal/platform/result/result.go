// Package result provides the uniform operation envelope returned by every
// customer-facing operation. Status codes mirror HTTP semantics so transport
// adapters can map them directly.
package result

import "net/http"

// Result wraps an operation outcome with a status code and optional payload.
// Succeeded and StatusCode are always consistent: success implies 200 or 201,
// failure implies a non-2xx code and an error message.
type Result[T any] struct {
	Succeeded    bool   `json:"succeeded"`
	StatusCode   int    `json:"statusCode"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Data         T      `json:"data,omitempty"`
}

// Ok returns a 200 result carrying data.
func Ok[T any](data T) Result[T] {
	return Result[T]{Succeeded: true, StatusCode: http.StatusOK, Data: data}
}

// Created returns a 201 result carrying data.
func Created[T any](data T) Result[T] {
	return Result[T]{Succeeded: true, StatusCode: http.StatusCreated, Data: data}
}

// BadRequest returns a 400 result.
func BadRequest[T any](msg string) Result[T] {
	return Result[T]{StatusCode: http.StatusBadRequest, ErrorMessage: msg}
}

// Unauthorized returns a 401 result.
func Unauthorized[T any](msg string) Result[T] {
	return Result[T]{StatusCode: http.StatusUnauthorized, ErrorMessage: msg}
}

// NotFound returns a 404 result.
func NotFound[T any](msg string) Result[T] {
	return Result[T]{StatusCode: http.StatusNotFound, ErrorMessage: msg}
}

// AlreadyExists returns a 409 result.
func AlreadyExists[T any](msg string) Result[T] {
	return Result[T]{StatusCode: http.StatusConflict, ErrorMessage: msg}
}

// InternalServerError returns a 500 result.
func InternalServerError[T any](msg string) Result[T] {
	return Result[T]{StatusCode: http.StatusInternalServerError, ErrorMessage: msg}
}
