// Package mutation is a client for the Sanity Mutations API.
//
// A Client posts batches of mutations to
//
//	POST https://{projectId}.api.sanity.io/{apiVersion}/data/mutate/{dataset}
//
// authenticated with a bearer token. Build turns a mapped document into one
// of the five supported mutations (create, createIfNotExists,
// createOrReplace, delete, patch). Failed requests return an *APIError; use
// the predicate functions (IsUnauthorized, IsNotFound, ...) to inspect it.
package mutation
