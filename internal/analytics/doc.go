// Package analytics holds the portfolio calculation routines: currency
// normalization, realized returns, expected returns, period performance and
// the snapshot orchestration that sequences them.
//
// Every function in this package is pure. It performs no I/O, keeps no state
// between calls and returns the same output for the same input.
package analytics
