// Package common holds small helpers shared by the mapper packages.
package common

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"
