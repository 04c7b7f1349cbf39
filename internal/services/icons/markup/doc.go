// Package markup defines the event stream consumed by the label and icon
// loaders and provides the XML adapter that produces it.
//
// A Source yields start, text and end events in document order and then a
// single terminal EOF event. Consecutive character data is coalesced into one
// text event; comments, processing instructions and directives are skipped.
package markup
