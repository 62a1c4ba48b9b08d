// Package ticker decodes feed frames into model.TickerMessage values.
//
// A frame is base64 text wrapping one protobuf-encoded yaticker message.
// Decoding is gated on the schema registry being loaded.
package ticker
