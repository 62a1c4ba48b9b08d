// Package store persists news items in a document store.
//
// DynamoDB is the primary backend. Postgres keeps the same items as JSONB
// rows for environments without AWS. Both implement writer.Store.
package store
