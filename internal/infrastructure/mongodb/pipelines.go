package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Aggregation pipelines are built by plain functions so their shape can be asserted in tests.

func lookupTutor() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: colUsers},
		{Key: "localField", Value: "tutor"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "tutorInfo"},
	}}}
}

// tutorNotBlocked keeps courses whose tutor is not blocked. A missing tutor matches.
func tutorNotBlocked() bson.D {
	return bson.D{{Key: "$match", Value: bson.D{{Key: "tutorInfo.status", Value: bson.D{{Key: "$ne", Value: false}}}}}}
}

// publicProjection hides the joined tutor and the purchase history from public listings.
func publicProjection() bson.D {
	return bson.D{{Key: "$project", Value: bson.D{{Key: "tutorInfo", Value: 0}, {Key: "purchaseHistory", Value: 0}}}}
}

func courseDetailPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		lookupTutor(),
		{{Key: "$project", Value: bson.D{{Key: "purchaseHistory", Value: 0}}}},
	}
}

func listedCoursesPipeline(match bson.D) mongo.Pipeline {
	p := mongo.Pipeline{}
	if len(match) > 0 {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	return append(p, lookupTutor(), tutorNotBlocked(), publicProjection())
}

func countPipeline(p mongo.Pipeline) mongo.Pipeline {
	return append(p, bson.D{{Key: "$count", Value: "count"}})
}

func popularCoursesPipeline() mongo.Pipeline {
	return append(listedCoursesPipeline(nil), bson.D{{Key: "$sort", Value: bson.D{{Key: "rating", Value: -1}}}})
}

func tutorPopularPipeline(tutor primitive.ObjectID, limit int64) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "tutor", Value: tutor}}}},
		{{Key: "$sort", Value: bson.D{{Key: "rating", Value: -1}}}},
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: limit}})
	}
	return p
}

// revenuePipeline unwinds purchase history and sums price*share per month, newest month name first.
func revenuePipeline(match bson.D, share float64) mongo.Pipeline {
	p := mongo.Pipeline{}
	if len(match) > 0 {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	return append(p,
		bson.D{{Key: "$unwind", Value: "$purchaseHistory"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$purchaseHistory.month"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$purchaseHistory.price", share}},
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	)
}

func courseStudentsPipeline(course primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: course}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: colUsers},
			{Key: "localField", Value: "students"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "studentInfo"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "studentInfo.password", Value: 0},
		}}},
	}
}

func reviewsPipeline(course primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "course", Value: course}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: colUsers},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "userInfo"},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "userInfo.password", Value: 0}}}},
	}
}
