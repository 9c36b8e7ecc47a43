// Package httputil provides the HTTP plumbing shared by the frame server.
//
// # Middleware
//
//   - [RequestID]: tags every request with a UUID, echoed in the
//     X-Request-ID header and available through [RequestIDFrom]
//   - [Observe]: reports each request to the observability HTTP hooks and
//     logs it at debug level
//
// # Responses
//
// [WriteJSON] encodes a value with the right content type. [WriteError]
// maps coded errors from pkg/errors to HTTP status codes and writes a JSON
// body of the form:
//
//	{"error": "node id must not be empty", "code": "INVALID_GRAPH", "request_id": "..."}
//
// [ReadBody] caps request bodies at [MaxBodySize] so a single upload cannot
// exhaust memory.
package httputil
