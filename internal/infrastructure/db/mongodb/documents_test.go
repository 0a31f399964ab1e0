package mongodb

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"stocktalk-service/internal/domain/entities"
)

func TestObjectIDMalformedIsNotFound(t *testing.T) {
	_, err := objectID("not-hex", "post")
	assert.True(t, errors.Is(err, entities.ErrNotFound))

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex(), "post")
	assert.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestObjectIDsSkipsMalformed(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	assert.Equal(t, []primitive.ObjectID{a, b}, objectIDs([]string{a.Hex(), "junk", b.Hex()}))
}

func TestPostDocumentToEntity(t *testing.T) {
	owner, liker, comment := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	doc := postDocument{
		Id:          primitive.NewObjectID(),
		StockSymbol: "AAPL",
		User:        owner,
		Likes:       []primitive.ObjectID{liker},
		LikesCount:  1,
		Comments:    []primitive.ObjectID{comment},
		CreatedAt:   time.Now(),
	}

	post := doc.toEntity()
	assert.Equal(t, owner.Hex(), post.UserId)
	assert.Equal(t, []string{liker.Hex()}, post.Likes)
	assert.Equal(t, []string{comment.Hex()}, post.Comments)
	assert.Equal(t, []string{}, post.Tags)
	assert.Equal(t, len(post.Likes), post.LikesCount)
}
