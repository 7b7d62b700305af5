// Package api handles incoming HTTP requests: session authentication,
// request decoding and validation, and response formatting. It adapts HTTP
// concerns onto the task and user services; role policy itself lives in the
// service layer, so every handler defers authorization decisions there.
package api
