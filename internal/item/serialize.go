package item

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// isoLayout matches JavaScript's Date.prototype.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Serialize converts an arbitrary in-memory value into an Item.
//
// The conversion is total: values it cannot represent become Null. Map
// entries whose value is absent are dropped, while absent list elements
// are kept as Null. Containers nested deeper than MaxDepth, including
// self-referencing ones, become Null. Serialize holds no state and is safe
// for concurrent use.
func Serialize(v any) Item {
	return serialize(v, 0)
}

// MaxDepth bounds container nesting.
const MaxDepth = 64

func serialize(v any, depth int) Item {
	kind, rv := classify(v)

	switch kind {
	case KindNull:
		return Null()
	case KindString:
		if rv.Type() == timeType {
			return String(rv.Interface().(time.Time).UTC().Format(isoLayout))
		}
		return String(rv.String())
	case KindNumber:
		text, ok := numberText(rv)
		if !ok {
			return Null()
		}
		return Number(text)
	case KindBool:
		return Bool(rv.Bool())
	case KindList, KindMap:
		if depth >= MaxDepth {
			return Null()
		}
		if kind == KindList {
			return serializeList(rv, depth+1)
		}
		return serializeMap(rv, depth+1)
	}
	return Null()
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	bigIntType  = reflect.TypeOf(big.Int{})
	numberType  = reflect.TypeOf(json.Number(""))
	rawType     = reflect.TypeOf(json.RawMessage(nil))
)

// classify maps v onto the closed set of kinds. Pointers and interfaces are
// followed; the returned reflect.Value is the dereferenced value.
func classify(v any) (Kind, reflect.Value) {
	if v == nil {
		return KindNull, reflect.Value{}
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return KindNull, reflect.Value{}
		}
		rv = rv.Elem()
	}

	switch rv.Type() {
	case numberType, decimalType, bigIntType:
		return KindNumber, rv
	case timeType:
		return KindString, rv
	case rawType:
		return classifyRaw(rv.Bytes())
	}

	switch rv.Kind() {
	case reflect.String:
		return KindString, rv
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber, rv
	case reflect.Bool:
		return KindBool, rv
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull, reflect.Value{}
		}
		return KindList, rv
	case reflect.Array:
		return KindList, rv
	case reflect.Map:
		if rv.IsNil() {
			return KindNull, reflect.Value{}
		}
		if rv.Type().Key().Kind() != reflect.String {
			return KindNull, reflect.Value{}
		}
		return KindMap, rv
	}

	return KindNull, reflect.Value{}
}

// classifyRaw decodes undecoded JSON and classifies the result.
func classifyRaw(raw []byte) (Kind, reflect.Value) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return KindNull, reflect.Value{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return KindNull, reflect.Value{}
	}
	return classify(decoded)
}

func numberText(rv reflect.Value) (string, bool) {
	switch rv.Type() {
	case numberType:
		text := rv.String()
		if _, err := decimal.NewFromString(text); err != nil {
			return "", false
		}
		return text, true
	case decimalType:
		return rv.Interface().(decimal.Decimal).String(), true
	case bigIntType:
		n := rv.Interface().(big.Int)
		return n.String(), true
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 32), true
	case reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func serializeList(rv reflect.Value, depth int) Item {
	items := make([]Item, rv.Len())
	for i := range items {
		items[i] = serialize(rv.Index(i).Interface(), depth)
	}
	return List(items...)
}

func serializeMap(rv reflect.Value, depth int) Item {
	m := make(map[string]Item, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		value := iter.Value().Interface()
		if kind, _ := classify(value); kind == KindNull && isAbsent(value) {
			continue
		}
		m[iter.Key().String()] = serialize(value, depth)
	}
	return Map(m)
}

// isAbsent reports whether v is nil or a nil pointer, slice or map, or a
// JSON null. Unsupported kinds are present and still serialize as Null.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	for {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return true
			}
			rv = rv.Elem()
			continue
		case reflect.Slice, reflect.Map:
			if rv.IsNil() {
				return true
			}
			if rv.Type() == rawType {
				raw := bytes.TrimSpace(rv.Bytes())
				return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
			}
		}
		return false
	}
}
