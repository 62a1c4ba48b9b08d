package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Anish565/Cloud-Final-Project/internal/config"
	"github.com/Anish565/Cloud-Final-Project/internal/database"
	"github.com/Anish565/Cloud-Final-Project/internal/item"
)

// Errors
var (
	ErrMissingKey = errors.New("item has no usable key attribute")
	ErrUnknown    = errors.New("unknown store driver")
)

// Store writes items and reports its health.
type Store interface {
	PutItem(ctx context.Context, table string, it map[string]item.Item) error
	Ping(ctx context.Context) error
	Close() error
}

// keyText returns the scalar text of attribute name in it.
func keyText(it map[string]item.Item, name string) (string, error) {
	k, ok := it[name]
	if !ok {
		return "", ErrMissingKey
	}
	switch k.Kind {
	case item.KindString, item.KindNumber:
		return k.S, nil
	default:
		return "", ErrMissingKey
	}
}

// Open connects the backend named by cfg.Driver. keyAttr names the item
// attribute Postgres uses as its primary key.
func Open(ctx context.Context, cfg config.StoreConfig, keyAttr string) (Store, error) {
	switch cfg.Driver {
	case "dynamodb":
		client, err := NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		return NewDynamoDB(client, cfg.Table), nil

	case "postgres":
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		pg := NewPostgres(pool, keyAttr)
		if err := pg.EnsureTable(ctx, cfg.Table); err != nil {
			pool.Close()
			return nil, err
		}
		return pg, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, cfg.Driver)
	}
}
