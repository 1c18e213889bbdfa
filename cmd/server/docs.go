// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

// @title OpusCine API
// @version 1.0
// @description Natural-language movie recommendations with streaming availability.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-03-14T12:34:56Z",
// @description     "request_id": "..."
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/opuscine/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /
// @schemes http https
//
// @tag.name Core
// @tag.description Health checks and service banner
//
// @tag.name Movies
// @tag.description Translation, recommendation and provider passthrough
//
// @tag.name OTT
// @tag.description Streaming link resolution
//
// @tag.name Admin
// @tag.description Catalog reload, cache warm-up, statistics and model endpoint registration
package main
