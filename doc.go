// Package cms is the backend for an operator-facing content management
// system: authors and their posts, managed over a JSON API by a small
// set of operator accounts.
//
// Access control:
//   - Operators sign in with email and password and receive an HS256 JWT
//     from TokenService. RequireAuth validates the bearer token on every
//     /api route; RequireRole layers an admin/super_admin gate on top.
//
// Resource lifecycle:
//   - Posts move through draft, published, and deleted states via
//     PostStateMachine, which owns the transition graph and the
//     publishedAt/deletedAt timestamps. Authors and operator accounts
//     have their own single-step machines (delete and deactivate).
//   - Deletes are soft. Deleted rows keep their data but disappear from
//     every read path, so a deleted resource is indistinguishable from
//     one that never existed.
//   - ReferentialGuard refuses to delete an author while non-deleted
//     posts still reference it.
//
// Listing:
//   - Every collection endpoint runs the same pipeline: exact-match
//     filters, a case-insensitive search across a per-resource field
//     set, a whitelisted sort, and page/limit pagination. The total
//     count reflects filters and search but never pagination.
package cms
