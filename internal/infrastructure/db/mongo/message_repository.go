package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

const collectionMessages = "messages"

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

var messageSortDesc = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// betweenFilter matches messages exchanged by a and b in either direction.
func betweenFilter(a, b string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
}

func involvingFilter(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if m.ID == "" {
		m.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// counterpartsPipeline projects every message of userID onto the other
// participant and groups by it.
func counterpartsPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: involvingFilter(userID)}},
		{{Key: "$project", Value: bson.M{
			"other": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$sender_id", userID}},
				"$receiver_id",
				"$sender_id",
			}},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$other"}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func (r *MessageRepository) CounterpartIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, counterpartsPipeline(userID))
	if err != nil {
		return nil, fmt.Errorf("aggregate counterparts: %w", err)
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode counterparts: %w", err)
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}

func (r *MessageRepository) Latest(ctx context.Context, a, b string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Message
	err := r.col.FindOne(ctx, betweenFilter(a, b), options.FindOne().SetSort(messageSortDesc)).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest message: %w", err)
	}
	return &m, nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, senderID, receiverID string) (int64, error) {
	return r.count(ctx, bson.M{"sender_id": senderID, "receiver_id": receiverID, "read": false})
}

func (r *MessageRepository) CountUnreadFor(ctx context.Context, receiverID string) (int64, error) {
	return r.count(ctx, bson.M{"receiver_id": receiverID, "read": false})
}

func (r *MessageRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// Thread loads the newest limit messages and returns them oldest first.
func (r *MessageRepository) Thread(ctx context.Context, a, b string, limit int) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(messageSortDesc).SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, betweenFilter(a, b), opts)
	if err != nil {
		return nil, fmt.Errorf("find thread: %w", err)
	}
	messages := []*domain.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode thread: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MessageRepository) DeleteByUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, involvingFilter(userID)); err != nil {
		return fmt.Errorf("delete user messages: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the messages collection.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "read", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
