package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

var stamp = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

// roundTrip encodes v the way the driver does and decodes it into out.
func roundTrip(t *testing.T, v, out any) {
	t.Helper()
	b, err := bson.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(b, out))
}

func TestUserDoc_RoundTrip(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	u := &entity.User{
		Username: "ann", Email: "ann@example.com", Password: "hash",
		Role: entity.RoleTutor, Status: true, Profile: "https://img/ann.png",
		Following: []string{a.Hex(), "not-an-id"}, Followers: []string{b.Hex()},
		CreatedAt: stamp, UpdatedAt: stamp,
	}
	doc := newUserDoc(u)
	doc.ID = primitive.NewObjectID()

	var back userDoc
	roundTrip(t, doc, &back)
	got := back.toEntity()

	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, entity.RoleTutor, got.Role)
	assert.Equal(t, "hash", got.Password)
	assert.True(t, got.Status)
	assert.Equal(t, []string{a.Hex()}, got.Following, "malformed ids are dropped on write")
	assert.Equal(t, []string{b.Hex()}, got.Followers)
	assert.True(t, stamp.Equal(got.CreatedAt))
}

func TestUserDoc_EmptyGraphEncodesAsArrays(t *testing.T) {
	raw, err := bson.Marshal(newUserDoc(&entity.User{Username: "x", Role: entity.RoleStudent}))
	require.NoError(t, err)

	following := bson.Raw(raw).Lookup("following")
	assert.Equal(t, bson.TypeArray, following.Type, "$addToSet needs an array, not null")
	_, err = bson.Raw(raw).LookupErr("_id")
	assert.Error(t, err, "ids are assigned in Create")
}

func TestCourseDoc_RoundTripKeepsPurchases(t *testing.T) {
	tutor, student := primitive.NewObjectID(), primitive.NewObjectID()
	c := &entity.Course{
		TutorID: tutor.Hex(), CourseName: "Go 101", Status: true, Category: "Programming",
		Language: "English", IsPaid: true, Price: 49.5, Level: "Beginner",
		Syllabus:    []entity.Session{{Session: "Intro", Description: "setup"}},
		Assignments: []entity.Assignment{{Question: "2+2", RightAns: "4", Options: []string{"3", "4"}}},
		Students:    []string{student.Hex()},
		CreatedAt:   stamp, UpdatedAt: stamp,
	}
	doc, err := newCourseDoc(c)
	require.NoError(t, err)
	doc.ID = primitive.NewObjectID()
	doc.PurchaseHistory = append(doc.PurchaseHistory, purchaseDoc{StudentID: student, Date: stamp, Price: 49.5, Month: "March"})

	var back courseDoc
	roundTrip(t, doc, &back)
	got := back.toEntity()

	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, tutor.Hex(), got.TutorID)
	assert.Equal(t, c.Syllabus, got.Syllabus)
	assert.Equal(t, c.Assignments, got.Assignments)
	assert.Equal(t, []string{student.Hex()}, got.Students)
	require.Len(t, got.PurchaseHistory, 1)
	p := got.PurchaseHistory[0]
	assert.Equal(t, student.Hex(), p.StudentID)
	assert.Equal(t, 49.5, p.Price)
	assert.Equal(t, "March", p.Month)
	assert.True(t, stamp.Equal(p.Date))
}

func TestNewCourseDoc_RejectsBadTutor(t *testing.T) {
	_, err := newCourseDoc(&entity.Course{TutorID: "nope"})
	assert.Error(t, err)
}

func TestChatDoc_NoLatestMessage(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	raw, err := bson.Marshal(chatDoc{ID: primitive.NewObjectID(), Users: []primitive.ObjectID{a, b}})
	require.NoError(t, err)
	_, err = bson.Raw(raw).LookupErr("latestMessage")
	assert.Error(t, err, "zero id is omitted")

	var back chatDoc
	require.NoError(t, bson.Unmarshal(raw, &back))
	got := back.toEntity()
	assert.Empty(t, got.LatestMessage)
	assert.Equal(t, []string{a.Hex(), b.Hex()}, got.Users)
}

func TestReviewDoc_WithUser(t *testing.T) {
	user := userDoc{ID: primitive.NewObjectID(), Username: "bo", Email: "bo@example.com", Password: "secret"}
	doc := reviewDoc{ID: primitive.NewObjectID(), Course: primitive.NewObjectID(), User: user.ID, Review: "good", Rating: 4, UserInfo: []userDoc{user}}

	var back reviewDoc
	roundTrip(t, doc, &back)
	got := back.withUser()

	assert.Equal(t, "good", got.Review.Review)
	assert.Equal(t, user.ID.Hex(), got.User.ID)
	assert.Equal(t, "bo", got.User.Username)

	back.UserInfo = nil
	assert.Empty(t, back.withUser().User.ID)
}

func TestEnrollUpdate_PushesStudentAndPurchase(t *testing.T) {
	student := primitive.NewObjectID()
	u := enrollUpdate(student, entity.NewPurchase(student.Hex(), 20, stamp))

	require.Len(t, u, 2)
	assert.Equal(t, "$push", u[0].Key)
	push := u[0].Value.(bson.D)
	assert.Equal(t, "students", push[0].Key)
	assert.Equal(t, student, push[0].Value)
	assert.Equal(t, "purchaseHistory", push[1].Key)
	assert.Equal(t, purchaseDoc{StudentID: student, Date: stamp, Price: 20, Month: "March"}, push[1].Value)

	assert.Equal(t, "$set", u[1].Key)
	assert.Equal(t, "updatedAt", u[1].Value.(bson.D)[0].Key)
}

func TestGraphEdits_AreMirrored(t *testing.T) {
	actor, other := primitive.NewObjectID(), primitive.NewObjectID()

	cases := []struct {
		name       string
		edit       graphEdit
		op         string
		actorField string
		otherField string
	}{
		{"follow", followEdit, "$addToSet", "following", "followers"},
		{"unfollow", unfollowEdit, "$pull", "following", "followers"},
		{"remove follower", removeFollowerEdit, "$pull", "followers", "following"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := tc.edit.actor(other)
			assert.Equal(t, tc.op, a[0].Key)
			assert.Equal(t, bson.D{{Key: tc.actorField, Value: other}}, a[0].Value)

			o := tc.edit.other(actor)
			assert.Equal(t, tc.op, o[0].Key)
			assert.Equal(t, bson.D{{Key: tc.otherField, Value: actor}}, o[0].Value)

			assert.Equal(t, "$set", a[1].Key)
			assert.Equal(t, "$set", o[1].Key)
		})
	}
}
