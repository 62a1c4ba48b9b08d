// Package writer persists news batches to a document store.
//
// Each record of a batch is written as its own item, keyed by a 1-based rank
// assigned in input order. Writes are sequential and a failed item never
// aborts the batch; throughput is bounded by store write latency.
//
// Item layout:
//
//	rank -> "1"
//	news -> {title, published_utc, article_url, tickers, image_url, insights}
package writer
