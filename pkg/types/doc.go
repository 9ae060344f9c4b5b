// Package types defines the Editor contract for the Easel editing toolkit:
// object identities, field and reference descriptors, schemas for record
// payloads, the Editor and View interfaces, standard errors, and generic
// helper functions for third-party Editor implementations.
package types
