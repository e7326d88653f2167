// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package api serves the movierec HTTP interface.

All endpoints are read-only GETs mounted under /api/v1:

	GET /api/v1/recommend?user_id=1&n=20        ranked movies for a user
	GET /api/v1/movies?search=&years=&page=     filtered, paginated catalog
	GET /api/v1/movies/filters                  values the catalog can be filtered by
	GET /api/v1/analytics?user_id=1&min_movies= per-user viewing breakdowns
	GET /api/v1/history?user_id=1               movies the user has watched
	GET /api/v1/summarize?movie_id=1            LLM summary of a movie's reviews
	GET /api/v1/health/live                     liveness probe
	GET /api/v1/health/ready                    readiness probe

Prometheus metrics are exposed at /metrics.

# Responses

Successful data endpoints return their payload as the raw JSON body. Failures
use the envelope from the models package:

	{
	  "status": "error",
	  "data": null,
	  "metadata": {"timestamp": "...", "request_id": "..."},
	  "error": {"code": "VALIDATION_ERROR", "message": "user_id is required"}
	}

Health probes wrap their status in a success envelope.

# Middleware

The router installs request ids, real client IPs, access logging, panic
recovery, CORS, per-group rate limiting (go-chi/httprate), Prometheus
request metrics and gzip compression.
*/
package api
