package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"stocktalk-service/internal/domain/entities"
)

type userDocument struct {
	Id             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email"`
	Password       string             `bson:"password"`
	Bio            string             `bson:"bio,omitempty"`
	ProfilePicture string             `bson:"profilePicture,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

type postDocument struct {
	Id          primitive.ObjectID   `bson:"_id,omitempty"`
	StockSymbol string               `bson:"stockSymbol"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Tags        []string             `bson:"tags"`
	User        primitive.ObjectID   `bson:"user"`
	Likes       []primitive.ObjectID `bson:"likes"`
	LikesCount  int                  `bson:"likesCount"`
	Comments    []primitive.ObjectID `bson:"comments"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

type commentDocument struct {
	Id        primitive.ObjectID `bson:"_id,omitempty"`
	Comment   string             `bson:"comment"`
	User      primitive.ObjectID `bson:"user"`
	Post      primitive.ObjectID `bson:"post"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// objectID parses a hex id. A malformed id can never match a document, so it
// is reported as not found.
func objectID(id, kind string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", entities.ErrNotFound, kind)
	}
	return oid, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

func hexIDs(oids []primitive.ObjectID) []string {
	ids := make([]string, 0, len(oids))
	for _, oid := range oids {
		ids = append(ids, oid.Hex())
	}
	return ids
}

func (d *userDocument) toEntity() *entities.User {
	return &entities.User{
		Id:             d.Id.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		Password:       d.Password,
		Bio:            d.Bio,
		ProfilePicture: d.ProfilePicture,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (d *postDocument) toEntity() *entities.Post {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &entities.Post{
		Id:          d.Id.Hex(),
		StockSymbol: d.StockSymbol,
		Title:       d.Title,
		Description: d.Description,
		Tags:        tags,
		UserId:      d.User.Hex(),
		Likes:       hexIDs(d.Likes),
		LikesCount:  d.LikesCount,
		Comments:    hexIDs(d.Comments),
		CreatedAt:   d.CreatedAt,
	}
}

func (d *commentDocument) toEntity() *entities.Comment {
	return &entities.Comment{
		Id:        d.Id.Hex(),
		Text:      d.Comment,
		UserId:    d.User.Hex(),
		PostId:    d.Post.Hex(),
		CreatedAt: d.CreatedAt,
	}
}
