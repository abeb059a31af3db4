// Package store defines the persistence interfaces and error taxonomy
// the task and user services depend on. Implementations live under
// internal/platform; the service layer only ever sees these interfaces,
// keeping the authorization and notification rules independent of the
// storage engine.
package store
