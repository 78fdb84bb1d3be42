// Package api provides the admin REST API of a running tracegate process.
//
// The API reads and changes the live verbosity registry. Every change is
// visible to the next trace check in any goroutine. It provides:
//   - listing and printing of the current overrides
//   - get/set/clear of the global default and of per-component overrides
//   - a gate check for a component and level
//   - health information
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "ERROR_CODE",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// # Persisting Changes
//
// PUT and DELETE requests accept ?persist=true. The change is then also
// written to the configuration file, so it survives a restart and the reload
// loop does not revert it.
//
// # Component Names
//
// Component names travel in the URL path, so the global default (the empty
// name) has its own endpoint, /api/v1/default. Names may contain any
// printable ASCII character except whitespace; URL-escape "/" and "%".
package api
