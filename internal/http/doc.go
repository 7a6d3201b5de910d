// Package http provides the HTTP handlers and middleware of the storefront API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at","principal"} with the token also surfaced
//     via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /sessions/refresh: rotates the current token and extends its TTL.
//   - DELETE /sessions/current: revokes the caller's session and clears the cookie.
//   - DELETE /sessions/{token}: administrator revocation of an arbitrary token.
//   - POST /register: public customer sign up.
//   - GET /users, POST /users, GET/PUT/DELETE /users/{id}: administrator
//     account management exchanging the `userDTO` payload in user_handler.go.
//   - GET /rooms, POST /rooms, PUT/DELETE /rooms/{id}: room catalog endpoints.
//     Listing is available to any authenticated principal, mutations require
//     admin privileges.
//   - POST /classes, GET/PUT/DELETE /classes/{id}: class management. Create and
//     update reject bookings whose room and time clash with another real or
//     derived occurrence (409 with the clashing slot).
//   - GET /schedule: the expanded occurrence view over a date window
//     (`room_id`, `from`, `to` query parameters).
//   - GET /products, GET /products/{id}: public catalog browsing (`category`
//     and `q` query parameters). POST/PUT/DELETE are admin only.
//   - GET /products/{id}/reviews: public review listing with rating summary.
//     POST requires an authenticated purchaser; DELETE /reviews/{id} is open to
//     the author or an administrator.
//   - POST /orders: checkout. GET /orders lists the caller's orders (admins may
//     pass ?all=true for the store wide listing), GET /orders/{id} fetches one,
//     POST /orders/{id}/payment confirms payment with the gateway, GET
//     /orders/{id}/downloads issues signed download links.
//   - GET /sales/summary: administrator revenue report (`from`/`to` query
//     parameters, inclusive dates).
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
