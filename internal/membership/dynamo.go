package membership

import (
	"context"
	"fmt"
	"log"

	"meeting-app-backend/internal/database"
	"meeting-app-backend/internal/model"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore keeps room membership in a table keyed by room_id (partition)
// and user_id (sort). Item-level Put/Delete match the per-(room,user)
// atomicity the relay needs; ListMembers is one partition query.
type DynamoStore struct {
	db    *database.DynamoDBClient
	table string
}

func NewDynamoStore(db *database.DynamoDBClient, table string) *DynamoStore {
	return &DynamoStore{
		db:    db,
		table: table,
	}
}

func (s *DynamoStore) Join(ctx context.Context, roomID, userID string, detail model.RoomMember) error {
	if err := s.db.PutItem(ctx, s.table, detail); err != nil {
		return fmt.Errorf("join room %s: %w", roomID, err)
	}
	return nil
}

func (s *DynamoStore) Leave(ctx context.Context, roomID, userID string) error {
	key := map[string]types.AttributeValue{
		"room_id": &types.AttributeValueMemberS{Value: roomID},
		"user_id": &types.AttributeValueMemberS{Value: userID},
	}
	if err := s.db.DeleteItem(ctx, s.table, key); err != nil {
		return fmt.Errorf("leave room %s: %w", roomID, err)
	}
	return nil
}

func (s *DynamoStore) ListMembers(ctx context.Context, roomID string) (map[string]model.RoomMember, error) {
	items, err := s.db.QueryItems(ctx, s.table,
		"room_id = :room",
		map[string]types.AttributeValue{
			":room": &types.AttributeValueMemberS{Value: roomID},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("list members of %s: %w", roomID, err)
	}

	members := make(map[string]model.RoomMember, len(items))
	for _, item := range items {
		var member model.RoomMember
		if err := attributevalue.UnmarshalMap(item, &member); err != nil {
			log.Printf("[membership] skipping corrupt item in room %s: %v", roomID, err)
			continue
		}
		members[member.UserID] = member
	}
	return members, nil
}
