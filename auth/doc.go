// Package auth decides if a request needs credentials and, when it does,
// which user those credentials belong to.
//
// A Strategy extracts a token from the request (the Authorization header
// for Basic, a cookie for Session) and resolves it to a users.User.
// Strategies report why they failed with typed errors, CurrentUser and
// SecurityRealm collapse those into "no user" so the HTTP layer only has
// to choose between 401 and 403.
//
// Excluded paths are matched with a single rule: a pattern ending in '*'
// matches by prefix, any other pattern matches exactly. Both sides get a
// trailing '/' before comparison, so "/api/v1/status" and
// "/api/v1/status/" are the same path. No other glob metacharacter is
// special.
package auth
