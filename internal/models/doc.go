// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package models defines the HTTP wire types shared by the API layer.

Domain data lives with the code that owns it (catalog.MovieView,
analytics.Report, recommend.Response). This package only holds the error
envelope and the health payloads.

Error Envelope:

	{
	  "status": "error",
	  "data": null,
	  "metadata": {"timestamp": "2026-01-02T03:04:05Z", "request_id": "…"},
	  "error": {"code": "VALIDATION_ERROR", "message": "…", "details": {"field": "n"}}
	}

Successful responses are written as their raw payload without the envelope.
*/
package models
