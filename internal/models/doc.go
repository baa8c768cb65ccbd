// Package models defines the domain types shared across the service client,
// formatter, and tool layers.
//
// Types here are normalized: the raw Apple Music resource envelopes live in
// the services package and are flattened into these structs before anything
// else sees them.
package models
