package types

import "wgportal/gateway/pkg/routers"

// Envelope error codes. Router-level codes are re-exported so handlers
// need only this package.
const (
	CodeInvalidConnection = routers.CodeInvalidConnection
	CodeUnsupportedVendor = routers.CodeUnsupportedVendor
	CodeTimeout           = routers.CodeTimeout
	CodeConnectionError   = routers.CodeConnectionError
	CodeRequestError      = routers.CodeRequestError
	CodeUpstreamError     = routers.CodeUpstreamError

	// CodeInvalidRequest marks a bad path, malformed JSON or oversized body.
	CodeInvalidRequest = "INVALID_REQUEST"

	// CodeUnsupportedMethod marks a method outside GET/POST/PUT/PATCH/DELETE.
	CodeUnsupportedMethod = "UNSUPPORTED_METHOD"

	// CodeInternalError marks a recovered panic or unexpected failure.
	CodeInternalError = "INTERNAL_ERROR"

	// CodeStoreError marks a config store failure.
	CodeStoreError = "STORE_ERROR"
)
