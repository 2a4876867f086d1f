package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

func asD(t *testing.T, v any) bson.D {
	t.Helper()
	var d bson.D
	roundTrip(t, v, &d)
	return d
}

func TestCourseRepository_Driver(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "learning.courses"

	mt.Run("enroll returns the course after the push", func(mt *mtest.T) {
		repo := NewCourseRepository(mt.DB)
		tutor, student := primitive.NewObjectID(), primitive.NewObjectID()
		before := courseDoc{
			ID: primitive.NewObjectID(), Tutor: tutor, CourseName: "Go 101", Status: true,
			Price: 30, Students: []primitive.ObjectID{}, PurchaseHistory: []purchaseDoc{},
		}
		after := before
		after.Students = []primitive.ObjectID{student}
		after.PurchaseHistory = []purchaseDoc{{StudentID: student, Date: stamp, Price: 30, Month: "March"}}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, asD(mt.T, before)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: asD(mt.T, after)}),
		)

		got, err := repo.Enroll(context.Background(), before.ID.Hex(), student.Hex(), stamp)
		require.NoError(mt, err)
		assert.Equal(mt, []string{student.Hex()}, got.Students)
		require.Len(mt, got.PurchaseHistory, 1)
		assert.Equal(mt, 30.0, got.PurchaseHistory[0].Price)
		assert.Equal(mt, student.Hex(), got.PurchaseHistory[0].StudentID)

		update := mt.GetStartedEvent()
		for update != nil && update.CommandName != "findAndModify" {
			update = mt.GetStartedEvent()
		}
		require.NotNil(mt, update)
		push := update.Command.Lookup("update", "$push")
		sid, ok := push.Document().Lookup("students").ObjectIDOK()
		require.True(mt, ok)
		assert.Equal(mt, student, sid)
		price := push.Document().Lookup("purchaseHistory", "price").Double()
		assert.Equal(mt, 30.0, price, "purchase price comes from the stored course")
	})

	mt.Run("enroll on a missing course is not found", func(mt *mtest.T) {
		repo := NewCourseRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.Enroll(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), time.Now())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("enroll rejects a malformed student id", func(mt *mtest.T) {
		repo := NewCourseRepository(mt.DB)
		doc := courseDoc{ID: primitive.NewObjectID(), Tutor: primitive.NewObjectID(), CourseName: "Go 101"}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, asD(mt.T, doc)))

		_, err := repo.Enroll(context.Background(), doc.ID.Hex(), "nope", time.Now())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
