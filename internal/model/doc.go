// Package model defines the data types shared across the ingester.
//
// Conventions:
//   - Prices: shopspring decimals built from the wire float32 values
//   - Event times: int64 milliseconds since Unix epoch, exactly as carried on the wire
//   - News fields keep the Polygon reference-news JSON names
package model
