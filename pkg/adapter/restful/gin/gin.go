// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin adapts the gin-gonic web framework for the parking
// control REST APIs. It re-exports the engine types, so other packages
// may depend on this package instead of gin-gonic directly, and
// provides the common middlewares which may be selected by the
// configuration settings.
package gin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/FabienMht/ginslog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/parking-control/pkg/core/log"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// RequestIDHeader is the request and response header which carries
// the request identifier.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// New instantiates a gin Engine in the release mode and registers the
// given middlewares on it. Request contexts fall back to the
// http.Request context, so values which are attached by middlewares
// (such as the request id log attribute) reach the use cases.
func New(middlewares ...HandlerFunc) *Engine {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs each request using the
// default slog logger.
func Logger() HandlerFunc {
	return ginslog.New(slog.Default())
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// RequestID returns a middleware which takes the request identifier
// from the X-Request-ID header, or generates a random UUID if it is
// missing. The identifier is echoed in the response header and is
// attached to the request context, so all records which are logged
// by the pkg/core/log package carry it.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		ctx := log.With(c.Request.Context(), slog.String(requestIDKey, id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetRequestID returns the request identifier which was recorded by
// the RequestID middleware, or an empty string.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// CORS returns a middleware which allows cross-origin requests from
// any origin and lets browsers cache the preflight results for maxAge.
// Preflight requests are answered without reaching the handlers.
func CORS(maxAge time.Duration) HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        maxAge,
	})
}
