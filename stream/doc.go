// Package stream contains the transformation core: it consumes the raw delta
// sequence of one generation, recognizes tool invocation requests, executes
// the matching tools concurrently and splices their results back into the
// same ordered part sequence text consumers are reading.
//
// The transformed sequence is exposed through a Result with two independent
// pull-based views (text-only and full-event) plus a terminal Server-Sent
// Events conversion of the raw sequence.
package stream
