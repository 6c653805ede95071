// Package api contains the client-side contract for the minhwa backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Login, Predict, temp/finalized listings, Finalize, DeleteImage and
//     transform-URL derivation.
//  2. A concrete HTTP implementation (see HTTPClient) that speaks the
//     backend's REST surface, attaches the bearer token and a per-request
//     X-Request-Id, bounds every call with a timeout, and maps status codes
//     to sentinel errors.
//
// # Wire surface
//
//	POST   /user/login                JSON {email, password} -> {access_token, user}
//	POST   /predict                   multipart user_id, file (+ style, quality, prompt)
//	GET    /images?user_id=&limit=&skip=
//	GET    /art/{user_id}
//	POST   /images/finalize?image_id=
//	DELETE /images/{id}
//	GET    /image/{id}/transform?t=   (URL derivation only; the asset itself
//	                                   is fetched by whatever displays it)
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable (here) plus common.ErrUnauthorized and
// common.ErrNotFound.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package api
