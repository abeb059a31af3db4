// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and stores
// (defined in internal/store) to fulfill application features.
//
// The central component is TaskService, which sequences every
// task-changing request as one logical unit: fetch the current snapshot,
// evaluate the access policy, write conditionally on the fetched version,
// and only then fan out notifications through an injected publisher. The
// ordering guarantees that a failed write never produces a notification
// and a failed notification never fails a request.
//
// Services receive dependencies through constructor injection and return
// errors from the store and domain taxonomies, augmented by the
// service-level sentinels ErrForbidden and ErrEmptyPatch.
package service
