package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portsrepo "github.com/vidverse/vidverse_backend/internal/core/ports/repositories"
)

const (
	usersCollection         = "users"
	videosCollection        = "videos"
	subscriptionsCollection = "subscriptions"
)

// MongoUserRepository persists user documents in MongoDB. Every mutation is
// a single per-document update, so the store's atomic-update guarantee
// carries the consistency of the session fields.
type MongoUserRepository struct {
	users         *mongo.Collection
	subscriptions *mongo.Collection
	videos        *mongo.Collection
}

// NewUserRepository creates a user repository bound to the given database.
func NewUserRepository(db *mongo.Database) portsrepo.UserRepository {
	return &MongoUserRepository{
		users:         db.Collection(usersCollection),
		subscriptions: db.Collection(subscriptionsCollection),
		videos:        db.Collection(videosCollection),
	}
}

// Ensure MongoUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*MongoUserRepository)(nil)

// EnsureUserIndexes creates the unique identifier indexes at startup;
// username/email uniqueness relies on them under concurrent registration.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func parseObjectID(userID string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		// An unparseable ID can only name a nonexistent document.
		return bson.ObjectID{}, apperrors.ErrNotFound
	}
	return oid, nil
}

func (r *MongoUserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	res, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = oid
	}
	return &user, nil
}

func (r *MongoUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	var user domain.User
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindUserByIdentifier(ctx context.Context, userName, email string) (*domain.User, error) {
	var identifiers bson.A
	if userName != "" {
		identifiers = append(identifiers, bson.M{"userName": userName})
	}
	if email != "" {
		identifiers = append(identifiers, bson.M{"email": email})
	}
	if len(identifiers) == 0 {
		return nil, fmt.Errorf("username or email is required: %w", apperrors.ErrValidation)
	}

	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"$or": identifiers}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by identifier: %w", err)
	}
	return &user, nil
}

// findOneAndSet applies a $set (plus updatedAt) to the user and returns the
// updated document.
func (r *MongoUserRepository) findOneAndSet(ctx context.Context, oid bson.ObjectID, fields bson.M) (*domain.User, error) {
	fields["updatedAt"] = time.Now()

	var updated domain.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &updated, nil
}

func (r *MongoUserRepository) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOneAndSet(ctx, oid, bson.M{"fullName": fullName, "email": email})
}

func (r *MongoUserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*domain.User, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOneAndSet(ctx, oid, bson.M{"avatar": avatarURL})
}

func (r *MongoUserRepository) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (*domain.User, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOneAndSet(ctx, oid, bson.M{"coverImage": coverImageURL})
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	res, err := r.users.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"passwordHash": passwordHash, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	res, err := r.users.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"refreshToken": refreshToken, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	// $unset on an absent field matches and does nothing, which keeps
	// logout idempotent.
	_, err = r.users.UpdateByID(ctx, oid, bson.M{
		"$unset": bson.M{"refreshToken": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// RotateRefreshToken is the compare-and-swap that closes the concurrent
// refresh race: the filter matches both the user and the still-current
// token value in one atomic document update.
func (r *MongoUserRepository) RotateRefreshToken(ctx context.Context, userID, presentedToken, nextToken string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": oid, "refreshToken": presentedToken},
		bson.M{"$set": bson.M{"refreshToken": nextToken, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either the token was already superseded (replay, or a concurrent
		// rotation won) or the user is gone; both are unauthorized.
		return apperrors.ErrUnauthorized
	}
	return nil
}

func (r *MongoUserRepository) AddVideoToWatchHistory(ctx context.Context, userID, videoID string) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}
	videoOID, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return fmt.Errorf("invalid video id: %w", apperrors.ErrValidation)
	}

	res, err := r.users.UpdateByID(ctx, oid, bson.M{
		"$push": bson.M{"watchHistory": videoOID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) GetChannelProfile(ctx context.Context, userName, viewerID string) (*domain.ChannelProfile, error) {
	var viewerOID interface{}
	if oid, err := bson.ObjectIDFromHex(viewerID); err == nil {
		viewerOID = oid
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userName": userName}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         subscriptionsCollection,
			"localField":   "_id",
			"foreignField": "channel",
			"as":           "subscribers",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         subscriptionsCollection,
			"localField":   "_id",
			"foreignField": "subscriber",
			"as":           "subscribedTo",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"subscriberCount":   bson.M{"$size": "$subscribers"},
			"subscribedToCount": bson.M{"$size": "$subscribedTo"},
			"isSubscribed": bson.M{"$cond": bson.M{
				"if":   bson.M{"$in": bson.A{viewerOID, "$subscribers.subscriber"}},
				"then": true,
				"else": false,
			}},
		}}},
		{{Key: "$project", Value: bson.M{
			"userName":          1,
			"fullName":          1,
			"email":             1,
			"avatar":            1,
			"coverImage":        1,
			"subscriberCount":   1,
			"subscribedToCount": 1,
			"isSubscribed":      1,
		}}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate channel profile: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []domain.ChannelProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode channel profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &profiles[0], nil
}

func (r *MongoUserRepository) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryVideo, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         videosCollection,
			"localField":   "watchHistory",
			"foreignField": "_id",
			"as":           "watchHistory",
			"pipeline": bson.A{
				bson.M{"$lookup": bson.M{
					"from":         usersCollection,
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "owner",
					"pipeline": bson.A{
						bson.M{"$project": bson.M{
							"userName": 1,
							"fullName": 1,
							"avatar":   1,
						}},
					},
				}},
				bson.M{"$addFields": bson.M{
					"owner": bson.M{"$first": "$owner"},
				}},
			},
		}}},
		{{Key: "$project", Value: bson.M{"watchHistory": 1}}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate watch history: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		WatchHistory []domain.WatchHistoryVideo `bson:"watchHistory"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode watch history: %w", err)
	}
	if len(results) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return results[0].WatchHistory, nil
}
