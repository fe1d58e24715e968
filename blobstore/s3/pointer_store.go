package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/anthony94polson/smart-toolpath-ai/blobstore"
)

// ActiveName is the virtual blob whose content names the checkpoint the
// recognizer should load. The checkpoint loader resolves it before falling
// back to a suffix scan.
const ActiveName = "ACTIVE"

// ErrConcurrentModification is returned when two uploaders race to move the
// ACTIVE pointer.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// DDBClient is the interface for the DynamoDB operations the pointer store
// uses. Satisfied by *dynamodb.Client.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// PointerStore implements blobstore.BlobStore backed by S3 with a DynamoDB
// table for the ACTIVE checkpoint pointer.
//
// S3 has no compare-and-swap, so "most recent upload wins" is ambiguous when
// several trainers publish at once. DynamoDB conditional writes give the
// pointer a monotonic version: whoever commits version v+1 first wins, the
// loser gets ErrConcurrentModification and retries against the new state.
//
// Table schema:
//   - Partition key: scope (string), the s3://bucket/prefix being pointed into
//   - Sort key: version (number), monotonically increasing
//
// Create with:
//
//	aws dynamodb create-table \
//	  --table-name aagnet-models \
//	  --attribute-definitions AttributeName=scope,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=scope,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type PointerStore struct {
	base      blobstore.BlobStore
	ddbClient DDBClient
	tableName string
	scope     string
}

// NewPointerStore wraps base with DynamoDB-backed ACTIVE pointer handling.
// The scope should be "s3://bucket/prefix", used as the partition key.
func NewPointerStore(base blobstore.BlobStore, ddbClient DDBClient, tableName, scope string) *PointerStore {
	return &PointerStore{
		base:      base,
		ddbClient: ddbClient,
		tableName: tableName,
		scope:     scope,
	}
}

// Open opens a blob for reading. Opening ActiveName resolves the pointer
// from DynamoDB instead of S3.
func (s *PointerStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name == ActiveName {
		version, checkpointName, err := s.latestVersion(ctx)
		if err != nil {
			return nil, err
		}
		if version == 0 {
			return nil, blobstore.ErrNotFound
		}
		return &pointerBlob{content: []byte(checkpointName)}, nil
	}
	return s.base.Open(ctx, name)
}

// Put writes a blob. Writing ActiveName commits a new pointer version with a
// conditional write.
func (s *PointerStore) Put(ctx context.Context, name string, data []byte) error {
	if name == ActiveName {
		return s.commitVersion(ctx, string(data))
	}
	return s.base.Put(ctx, name, data)
}

// Delete removes a blob. The pointer itself is never deleted, only advanced.
func (s *PointerStore) Delete(ctx context.Context, name string) error {
	return s.base.Delete(ctx, name)
}

// List lists blobs with prefix.
func (s *PointerStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.base.List(ctx, prefix)
}

// latestVersion queries DynamoDB for the newest committed pointer.
func (s *PointerStore) latestVersion(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("#scope = :scope"),
		// "scope" collides with a DynamoDB reserved word, hence the alias.
		ExpressionAttributeNames: map[string]string{"#scope": "scope"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":scope": &types.AttributeValueMemberS{Value: s.scope},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("query pointer table: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in pointer table")
	}
	nameAttr, ok := item["checkpoint"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid checkpoint attribute in pointer table")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return 0, "", fmt.Errorf("parse pointer version: %w", err)
	}
	return version, nameAttr.Value, nil
}

// commitVersion advances the pointer with a conditional write.
func (s *PointerStore) commitVersion(ctx context.Context, checkpointName string) error {
	currentVersion, _, err := s.latestVersion(ctx)
	if err != nil {
		return err
	}
	newVersion := currentVersion + 1

	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"scope":      &types.AttributeValueMemberS{Value: s.scope},
			"version":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newVersion)},
			"checkpoint": &types.AttributeValueMemberS{Value: checkpointName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("commit pointer version: %w", err)
	}
	return nil
}

// pointerBlob carries the resolved checkpoint name.
type pointerBlob struct {
	content []byte
}

func (b *pointerBlob) Close() error { return nil }

func (b *pointerBlob) Size() int64 { return int64(len(b.content)) }

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off >= int64(len(b.content)) {
		return 0, nil
	}
	return copy(p, b.content[off:]), nil
}
