// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package middleware provides HTTP middleware components for the API.

All middleware has the chi signature func(http.Handler) http.Handler.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation ids in
    the logging context
  - AccessLog: one structured log line per request, warning on slow requests
  - PrometheusMetrics: request count, duration and in-flight gauge labelled
    by chi route pattern
  - Compression: gzip for clients that accept it

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

The route pattern label keeps metric cardinality bounded: /api/v1/movies
is recorded once regardless of query string.
*/
package middleware
