// Package twitter implements the contacts provider against the Twitter REST
// v1.1 API.
//
// Requests are signed with OAuth 1.0a user credentials taken from
// config.TwitterConfig and pass through a client-side rate limiter before
// they leave the process. Follower and friend listings follow next_cursor
// until it is 0. Nothing here retries; a failed call returns a typed
// *errors.Error and the caller decides what to do.
package twitter
