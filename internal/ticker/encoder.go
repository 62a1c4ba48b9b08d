package ticker

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// Encode builds a base64 frame for m. It is the inverse of Decode and is used
// to drive feeds in tests and local tooling.
func (d *Decoder) Encode(m model.TickerMessage) ([]byte, error) {
	desc, err := d.registry.Message()
	if err != nil {
		return nil, ErrNotReady
	}

	msg := dynamicpb.NewMessage(desc)
	set := func(name protoreflect.Name, v protoreflect.Value) {
		if fd := desc.Fields().ByName(name); fd != nil {
			msg.Set(fd, v)
		}
	}

	price, _ := m.Price.Float64()
	high, _ := m.DayHigh.Float64()
	low, _ := m.DayLow.Float64()
	change, _ := m.Change.Float64()
	changePct, _ := m.ChangePercent.Float64()

	set("id", protoreflect.ValueOfString(m.Symbol))
	set("price", protoreflect.ValueOfFloat32(float32(price)))
	set("dayHigh", protoreflect.ValueOfFloat32(float32(high)))
	set("dayLow", protoreflect.ValueOfFloat32(float32(low)))
	set("dayVolume", protoreflect.ValueOfInt64(m.DayVolume))
	set("time", protoreflect.ValueOfInt64(m.EventTime))
	set("exchange", protoreflect.ValueOfString(m.Exchange))
	set("currency", protoreflect.ValueOfString(m.Currency))
	set("shortName", protoreflect.ValueOfString(m.ShortName))
	set("change", protoreflect.ValueOfFloat32(float32(change)))
	set("changePercent", protoreflect.ValueOfFloat32(float32(changePct)))
	set("marketHours", protoreflect.ValueOfEnum(protoreflect.EnumNumber(m.MarketHours)))

	raw, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}
