// Package core defines the shared data model of the library: the closed
// StreamPart sum type flowing through the transformed event sequence, the
// normalized prompt Message representation and ID generation helpers.
//
// All entities are request-scoped; nothing in this package persists across
// generation requests.
package core
