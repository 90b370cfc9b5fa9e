// Package middleware provides the HTTP middleware used by the flowattack API
// server.
//
// All middleware follows the standard pattern func(http.Handler) http.Handler,
// so chains compose by wrapping:
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
package middleware
