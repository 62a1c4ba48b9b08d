// Package database provides PostgreSQL connection pool management.
//
// The pool backs the postgres document store, which keeps news items as
// JSONB rows keyed by rank when DynamoDB is not used.
package database
