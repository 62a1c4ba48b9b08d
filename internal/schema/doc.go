// Package schema holds the fixed binary definition of a feed frame.
//
// The definition is a text-format FileDescriptorProto (yaticker.textproto is
// embedded as the default). It is loaded once at startup, before the feed
// starts accepting frames, and is read-only afterwards.
package schema
