// Package auth provides token authentication for the Slowish API.
package auth

// HeaderAuthToken is the header carrying the bearer token on every
// authorized call.
const HeaderAuthToken = "X-Auth-Token"
