// Package middleware provides the HTTP middleware stack of the search API.
package middleware

import "net/http"

// Middleware is a function that wraps an http.Handler. It is assignable to
// the func type chi's Router.Use accepts.
type Middleware = func(http.Handler) http.Handler
