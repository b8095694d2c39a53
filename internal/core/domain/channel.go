package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ChannelProfile is the public view of a user's channel, including
// subscription relationship counts resolved against the viewer.
type ChannelProfile struct {
	ID                bson.ObjectID `bson:"_id" json:"id"`
	UserName          string        `bson:"userName" json:"userName"`
	FullName          string        `bson:"fullName" json:"fullName"`
	Email             string        `bson:"email" json:"email"`
	Avatar            string        `bson:"avatar" json:"avatar"`
	CoverImage        string        `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	SubscriberCount   int64         `bson:"subscriberCount" json:"subscriberCount"`
	SubscribedToCount int64         `bson:"subscribedToCount" json:"subscribedToCount"`
	IsSubscribed      bool          `bson:"isSubscribed" json:"isSubscribed"`
}

// VideoOwner is the denormalized owner summary attached to watch history
// entries.
type VideoOwner struct {
	ID       bson.ObjectID `bson:"_id" json:"id"`
	UserName string        `bson:"userName" json:"userName"`
	FullName string        `bson:"fullName" json:"fullName"`
	Avatar   string        `bson:"avatar" json:"avatar"`
}

// WatchHistoryVideo is one entry of a user's watch history, joined with the
// referenced video document and its owner.
type WatchHistoryVideo struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Thumbnail   string        `bson:"thumbnail" json:"thumbnail"`
	VideoFile   string        `bson:"videoFile" json:"videoFile"`
	Duration    float64       `bson:"duration" json:"duration"`
	Views       int64         `bson:"views" json:"views"`
	Owner       VideoOwner    `bson:"owner" json:"owner"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}
