package net

import (
	"net/http"

	perr "receiptjar/internal/platform/errors"
)

// Wire is the common envelope used by transports
// every response carries OK; failures add Code and Message
type Wire struct {
	OK        bool           `json:"ok"`
	Code      perr.ErrorCode `json:"code,omitempty"`
	Message   string         `json:"message,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Data      any            `json:"data,omitempty"`
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) {
	return http.StatusOK, Wire{OK: true, RequestID: reqID, Data: data}
}

// Created builds a 201 envelope
func Created(data any, reqID string) (int, Wire) {
	return http.StatusCreated, Wire{OK: true, RequestID: reqID, Data: data}
}

// Error builds an error envelope
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		OK:        false,
		Code:      w.Code,
		Message:   w.Message,
		RequestID: reqID,
	}
}
