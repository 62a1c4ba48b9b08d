package ticker

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
	"github.com/Anish565/Cloud-Final-Project/internal/schema"
)

// Errors
var (
	ErrNotReady = errors.New("schema not ready")
	ErrDecode   = errors.New("decode frame")
)

// Decoder turns base64 text frames into TickerMessages.
// It is stateless apart from the registry and safe for concurrent use.
type Decoder struct {
	registry *schema.Registry
}

// NewDecoder creates a Decoder backed by registry. A nil registry uses
// schema.Default().
func NewDecoder(registry *schema.Registry) *Decoder {
	if registry == nil {
		registry = schema.Default()
	}
	return &Decoder{registry: registry}
}

// Decode parses one frame. It returns ErrNotReady until the schema is loaded
// and ErrDecode when the payload is not base64 or does not match the schema.
// Values are copied structurally; nothing is converted or range-checked.
func (d *Decoder) Decode(payload []byte) (model.TickerMessage, error) {
	desc, err := d.registry.Message()
	if err != nil {
		return model.TickerMessage{}, ErrNotReady
	}

	text := bytes.TrimSpace(payload)
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(raw, text)
	if err != nil {
		return model.TickerMessage{}, fmt.Errorf("%w: base64: %w", ErrDecode, err)
	}

	msg := dynamicpb.NewMessage(desc)
	if err := proto.Unmarshal(raw[:n], msg); err != nil {
		return model.TickerMessage{}, fmt.Errorf("%w: protobuf: %w", ErrDecode, err)
	}

	f := fields{msg: msg, desc: desc}
	out := model.TickerMessage{
		Symbol:        f.str("id"),
		Price:         f.dec("price"),
		DayHigh:       f.dec("dayHigh"),
		DayLow:        f.dec("dayLow"),
		DayVolume:     f.i64("dayVolume"),
		EventTime:     f.i64("time"),
		Exchange:      f.str("exchange"),
		Currency:      f.str("currency"),
		ShortName:     f.str("shortName"),
		Change:        f.dec("change"),
		ChangePercent: f.dec("changePercent"),
		MarketHours:   f.enum("marketHours"),
	}
	if f.err != nil {
		return model.TickerMessage{}, fmt.Errorf("%w: %w", ErrDecode, f.err)
	}
	return out, nil
}

// fields reads typed values off a dynamic message, recording the first
// mismatch between the expected kind and the schema.
type fields struct {
	msg  *dynamicpb.Message
	desc protoreflect.MessageDescriptor
	err  error
}

func (f *fields) get(name protoreflect.Name, kinds ...protoreflect.Kind) (protoreflect.Value, bool) {
	fd := f.desc.Fields().ByName(name)
	if fd == nil {
		return protoreflect.Value{}, false
	}
	for _, k := range kinds {
		if fd.Kind() == k {
			return f.msg.Get(fd), true
		}
	}
	if f.err == nil {
		f.err = fmt.Errorf("field %s has kind %s", name, fd.Kind())
	}
	return protoreflect.Value{}, false
}

func (f *fields) str(name protoreflect.Name) string {
	v, ok := f.get(name, protoreflect.StringKind)
	if !ok {
		return ""
	}
	return v.String()
}

func (f *fields) dec(name protoreflect.Name) decimal.Decimal {
	v, ok := f.get(name, protoreflect.FloatKind, protoreflect.DoubleKind)
	if !ok {
		return decimal.Zero
	}
	fd := f.desc.Fields().ByName(name)
	if fd.Kind() == protoreflect.FloatKind {
		return decimal.NewFromFloat32(float32(v.Float()))
	}
	return decimal.NewFromFloat(v.Float())
}

func (f *fields) i64(name protoreflect.Name) int64 {
	v, ok := f.get(name,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
	)
	if !ok {
		return 0
	}
	return v.Int()
}

func (f *fields) enum(name protoreflect.Name) int32 {
	v, ok := f.get(name, protoreflect.EnumKind)
	if !ok {
		return 0
	}
	return int32(v.Enum())
}
