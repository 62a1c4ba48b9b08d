package item

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Kind enumerates the value kinds a stored item can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// String returns the wire tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Item is a tagged document-store value. Exactly one payload field is
// meaningful, selected by Kind. Numbers are kept as canonical decimal text.
type Item struct {
	Kind Kind
	S    string          // KindString and KindNumber
	B    bool            // KindBool
	L    []Item          // KindList
	M    map[string]Item // KindMap
}

// Null returns the null item.
func Null() Item { return Item{Kind: KindNull} }

// String returns a string item.
func String(s string) Item { return Item{Kind: KindString, S: s} }

// Number returns a number item from its decimal text.
func Number(text string) Item { return Item{Kind: KindNumber, S: text} }

// Bool returns a boolean item.
func Bool(b bool) Item { return Item{Kind: KindBool, B: b} }

// List returns a list item.
func List(items ...Item) Item {
	if items == nil {
		items = []Item{}
	}
	return Item{Kind: KindList, L: items}
}

// Map returns a map item.
func Map(m map[string]Item) Item {
	if m == nil {
		m = map[string]Item{}
	}
	return Item{Kind: KindMap, M: m}
}

// IsNull reports whether the item is the null item.
func (it Item) IsNull() bool { return it.Kind == KindNull }

// MarshalJSON renders the tagged form, e.g. {"number":"42"} or
// {"map":{"a":{"string":"x"}}}. Map keys are written in sorted order.
func (it Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := it.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (it Item) writeJSON(buf *bytes.Buffer) error {
	buf.WriteString(`{"`)
	buf.WriteString(it.Kind.String())
	buf.WriteString(`":`)

	switch it.Kind {
	case KindString, KindNumber:
		b, err := json.Marshal(it.S)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBool:
		if it.B {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindList:
		buf.WriteByte('[')
		for i, e := range it.L {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		keys := make([]string, 0, len(it.M))
		for k := range it.M {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := it.M[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("true")
	}

	buf.WriteByte('}')
	return nil
}
