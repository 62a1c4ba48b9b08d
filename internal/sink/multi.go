package sink

import (
	"context"
	"errors"

	"github.com/Anish565/Cloud-Final-Project/internal/model"
)

// Multi sends every message to each sink in order. A failing sink does not
// stop delivery to the others; all failures are joined.
type Multi []Sink

func (m Multi) Send(ctx context.Context, msg model.TickerMessage) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
