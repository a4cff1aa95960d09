package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"boardcore/application/ports"
	pkgerrors "boardcore/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// BoardRepository implements ports.BoardRepository using DynamoDB. Each board
// is one item holding the full document; every save is a whole-document
// overwrite, so writes are idempotent and last-writer-wins.
type BoardRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.BoardRepository {
	return &BoardRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// boardItem represents the DynamoDB item structure for a board
type boardItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ports.BoardRecord
}

func boardKey(boardID, userID string) (string, string) {
	return fmt.Sprintf("USER#%s", userID), fmt.Sprintf("BOARD#%s", boardID)
}

// Create stores a new board document. Fails with a conflict if the board
// already exists.
func (r *BoardRepository) Create(ctx context.Context, record *ports.BoardRecord) (*ports.BoardRecord, error) {
	pk, sk := boardKey(record.ID, record.UserID)
	item := boardItem{
		PK:          pk,
		SK:          sk,
		EntityType:  "BOARD",
		BoardRecord: *record,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, pkgerrors.NewConflictError("board already exists")
		}
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	r.logger.Info("board created in DynamoDB",
		zap.String("boardID", record.ID),
		zap.String("userID", record.UserID),
	)
	return record, nil
}

// Get fetches a board document for the owning user
func (r *BoardRepository) Get(ctx context.Context, boardID, userID string) (*ports.BoardRecord, error) {
	pk, sk := boardKey(boardID, userID)
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("board")
	}

	var item boardItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	return &item.BoardRecord, nil
}

// Put replaces the full board document and returns the stored representation
func (r *BoardRepository) Put(ctx context.Context, boardID, userID string, record *ports.BoardRecord) (*ports.BoardRecord, error) {
	stored := *record
	stored.ID = boardID
	stored.UserID = userID

	pk, sk := boardKey(boardID, userID)
	item := boardItem{
		PK:          pk,
		SK:          sk,
		EntityType:  "BOARD",
		BoardRecord: stored,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to save board: %w", err)
	}

	r.logger.Debug("board saved to DynamoDB",
		zap.String("boardID", boardID),
		zap.String("userID", userID),
		zap.Int("cardCount", len(stored.Cards)),
		zap.Int("edgeCount", len(stored.Edges)),
	)
	return &stored, nil
}

// Delete removes a board document for the owning user
func (r *BoardRepository) Delete(ctx context.Context, boardID, userID string) error {
	pk, sk := boardKey(boardID, userID)
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewNotFoundError("board")
		}
		return fmt.Errorf("failed to delete board: %w", err)
	}

	r.logger.Info("board deleted from DynamoDB",
		zap.String("boardID", boardID),
		zap.String("userID", userID),
	)
	return nil
}

// ListByUser returns every board owned by the user
func (r *BoardRepository) ListByUser(ctx context.Context, userID string) ([]*ports.BoardRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "BOARD#"},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	records := make([]*ports.BoardRecord, 0, len(result.Items))
	for _, raw := range result.Items {
		var item boardItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("skipping unreadable board item", zap.Error(err))
			continue
		}
		rec := item.BoardRecord
		records = append(records, &rec)
	}

	return records, nil
}
