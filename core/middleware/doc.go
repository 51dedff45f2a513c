// Package middleware holds the Fiber middleware in front of the run journal API
// started by `fmerge serve`.
//
// # Order
//
// The server registers them in this order:
//
//  1. rayid: reuses the caller's X-Ray-ID header or generates a uuid, stores it in
//     Locals("ray_id") and echoes it back. Journal handlers log with logger.WithRayID.
//  2. request logging (registered in cmd/serve.go).
//  3. auth: compares X-API-Key (or ?api_key=) with SERVER_API_KEY in constant time and
//     answers 401 {"error":"unauthorized"}. An empty key disables the check, which is
//     the default for a journal served on localhost.
package middleware
