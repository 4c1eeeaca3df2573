// Package diagnostic provides structured warnings, errors, and infos
// produced while checking mapping rules against a document schema.
//
// Key capabilities:
//   - Unknown field warnings with "did you mean" suggestions
//   - Rejected path reports (empty or reserved segments)
//   - Notes about schema types the mapper passes through untouched
package diagnostic
