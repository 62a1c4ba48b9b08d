package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Anish565/Cloud-Final-Project/internal/config"
	"github.com/Anish565/Cloud-Final-Project/internal/item"
)

// DynamoDBAPI is the subset of *dynamodb.Client the store uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// NewDynamoDBClient builds a client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewDynamoDBClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// DynamoDB writes items with one PutItem call each.
type DynamoDB struct {
	client DynamoDBAPI
	table  string // checked by Ping
}

// NewDynamoDB creates a DynamoDB store. table is only used for health checks;
// writes go to the table named on each call.
func NewDynamoDB(client DynamoDBAPI, table string) *DynamoDB {
	return &DynamoDB{client: client, table: table}
}

func (d *DynamoDB) PutItem(ctx context.Context, table string, it map[string]item.Item) error {
	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      AttributeMap(it),
	})
	if err != nil {
		return fmt.Errorf("dynamodb put %s: %w", table, err)
	}
	return nil
}

// Ping checks that the configured table exists and is reachable.
func (d *DynamoDB) Ping(ctx context.Context) error {
	out, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.table),
	})
	if err != nil {
		return fmt.Errorf("dynamodb describe %s: %w", d.table, err)
	}
	if out.Table != nil && out.Table.TableStatus != types.TableStatusActive && out.Table.TableStatus != types.TableStatusUpdating {
		return fmt.Errorf("dynamodb table %s is %s", d.table, out.Table.TableStatus)
	}
	return nil
}

func (d *DynamoDB) Close() error { return nil }

// AttributeMap converts a stored item to DynamoDB attribute values.
func AttributeMap(it map[string]item.Item) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(it))
	for k, v := range it {
		out[k] = AttributeValue(v)
	}
	return out
}

// AttributeValue converts one Item. Each Kind maps to exactly one DynamoDB type.
func AttributeValue(v item.Item) types.AttributeValue {
	switch v.Kind {
	case item.KindString:
		return &types.AttributeValueMemberS{Value: v.S}
	case item.KindNumber:
		return &types.AttributeValueMemberN{Value: v.S}
	case item.KindBool:
		return &types.AttributeValueMemberBOOL{Value: v.B}
	case item.KindList:
		l := make([]types.AttributeValue, len(v.L))
		for i, e := range v.L {
			l[i] = AttributeValue(e)
		}
		return &types.AttributeValueMemberL{Value: l}
	case item.KindMap:
		return &types.AttributeValueMemberM{Value: AttributeMap(v.M)}
	default:
		return &types.AttributeValueMemberNULL{Value: true}
	}
}
