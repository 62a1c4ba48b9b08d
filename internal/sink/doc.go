// Package sink delivers decoded ticker messages downstream of the feed.
//
// Log prints one line per quote. Redis caches the latest quote per symbol
// and publishes it on prices.<SYMBOL>. Kafka appends quotes to a topic keyed
// by symbol. Multi fans out to several sinks and Buffered decouples a slow
// sink from the feed loop without reordering.
package sink
