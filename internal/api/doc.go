// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It adapts external clients to the internal
// task and auth services, translating HTTP concerns to business
// operations, and hosts the Server-Sent Events endpoint that streams
// task notifications to connected users.
package api
