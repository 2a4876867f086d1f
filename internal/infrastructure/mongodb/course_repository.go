package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(colCourses)}
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	doc, err := newCourseDoc(c)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	c.ID = doc.ID.Hex()
	if c.Students == nil {
		c.Students = []string{}
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc courseDoc
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: _id}}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *CourseRepository) GetDetail(ctx context.Context, id string) (*entity.CourseDetail, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	docs, err := r.aggregate(ctx, courseDetailPipeline(_id))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}
	d := &entity.CourseDetail{Course: *docs[0].toEntity()}
	if len(docs[0].TutorInfo) > 0 {
		sum := docs[0].TutorInfo[0].summary()
		d.Tutor = &sum
	}
	return d, nil
}

func (r *CourseRepository) aggregate(ctx context.Context, p mongo.Pipeline) ([]courseDoc, error) {
	cur, err := r.col.Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	var docs []courseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *CourseRepository) courses(ctx context.Context, p mongo.Pipeline) ([]entity.Course, error) {
	docs, err := r.aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Course, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toEntity())
	}
	return out, nil
}

func (r *CourseRepository) count(ctx context.Context, p mongo.Pipeline) (int64, error) {
	cur, err := r.col.Aggregate(ctx, countPipeline(p))
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

func (r *CourseRepository) findAndSet(ctx context.Context, filter, set bson.D) (*entity.Course, error) {
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now().UTC()})
	return r.findAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}})
}

func (r *CourseRepository) findAndUpdate(ctx context.Context, filter, update bson.D) (*entity.Course, error) {
	var doc courseDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func ownedFilter(id, tutorID string) (bson.D, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	tutor, err := oid(tutorID)
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "_id", Value: _id}, {Key: "tutor", Value: tutor}}, nil
}

func (r *CourseRepository) Update(ctx context.Context, id, tutorID string, in entity.CourseUpdate) (*entity.Course, error) {
	filter, err := ownedFilter(id, tutorID)
	if err != nil {
		return nil, err
	}
	return r.findAndSet(ctx, filter, bson.D{
		{Key: "coursename", Value: in.CourseName},
		{Key: "description", Value: in.Description},
		{Key: "shortDescription", Value: in.ShortDescription},
		{Key: "category", Value: in.Category},
		{Key: "language", Value: in.Language},
		{Key: "isPaid", Value: in.IsPaid},
		{Key: "price", Value: in.Price},
		{Key: "level", Value: in.Level},
		{Key: "imgUrl", Value: in.ImgURL},
		{Key: "videoUrl", Value: in.VideoURL},
		{Key: "sylabus", Value: sessionDocs(in.Syllabus)},
		{Key: "assignments", Value: assignmentDocs(in.Assignments)},
	})
}

func (r *CourseRepository) SetStatus(ctx context.Context, id, tutorID string, status bool) (*entity.Course, error) {
	filter, err := ownedFilter(id, tutorID)
	if err != nil {
		return nil, err
	}
	return r.findAndSet(ctx, filter, bson.D{{Key: "status", Value: status}})
}

func (r *CourseRepository) List(ctx context.Context) ([]entity.Course, error) {
	return r.courses(ctx, listedCoursesPipeline(nil))
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, listedCoursesPipeline(nil))
}

func (r *CourseRepository) Popular(ctx context.Context) ([]entity.Course, error) {
	return r.courses(ctx, popularCoursesPipeline())
}

func (r *CourseRepository) TutorCourses(ctx context.Context, tutorID string) ([]entity.Course, error) {
	tutor, err := oid(tutorID)
	if err != nil {
		return []entity.Course{}, nil
	}
	return r.courses(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "tutor", Value: tutor}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	})
}

func (r *CourseRepository) TutorPopular(ctx context.Context, tutorID string, limit int64) ([]entity.Course, error) {
	tutor, err := oid(tutorID)
	if err != nil {
		return []entity.Course{}, nil
	}
	return r.courses(ctx, tutorPopularPipeline(tutor, limit))
}

func (r *CourseRepository) StudentCourses(ctx context.Context, studentID string) ([]entity.Course, error) {
	student, err := oid(studentID)
	if err != nil {
		return []entity.Course{}, nil
	}
	return r.courses(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "students", Value: student}}}},
		{{Key: "$project", Value: bson.D{{Key: "purchaseHistory", Value: 0}}}},
	})
}

func (r *CourseRepository) ListByLanguage(ctx context.Context, language string) ([]entity.Course, error) {
	return r.courses(ctx, listedCoursesPipeline(bson.D{{Key: "language", Value: language}}))
}

func (r *CourseRepository) CountByLanguage(ctx context.Context, language string) (int64, error) {
	return r.count(ctx, listedCoursesPipeline(bson.D{{Key: "language", Value: language}}))
}

func (r *CourseRepository) RenameLanguage(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.D{{Key: "language", Value: oldName}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "language", Value: newName}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ChangeRating reads then writes; concurrent reviews on one course can interleave.
func (r *CourseRepository) ChangeRating(ctx context.Context, id string, rating float64, count int64) (*entity.Course, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := entity.NextRating(c.Rating, rating, count)
	if err != nil {
		return nil, err
	}
	_id, _ := oid(id)
	return r.findAndSet(ctx, bson.D{{Key: "_id", Value: _id}}, bson.D{{Key: "rating", Value: next}})
}

func (r *CourseRepository) Enroll(ctx context.Context, id, studentID string, at time.Time) (*entity.Course, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	student, err := oid(studentID)
	if err != nil {
		return nil, err
	}
	_id, _ := oid(id)
	return r.findAndUpdate(ctx, bson.D{{Key: "_id", Value: _id}}, enrollUpdate(student, entity.NewPurchase(studentID, c.Price, at)))
}

// enrollUpdate appends the student and one purchase entry; repeated enrollments are not merged.
func enrollUpdate(student primitive.ObjectID, p entity.Purchase) bson.D {
	return bson.D{
		{Key: "$push", Value: bson.D{
			{Key: "students", Value: student},
			{Key: "purchaseHistory", Value: purchaseDoc{StudentID: student, Date: p.Date, Price: p.Price, Month: p.Month}},
		}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
}

func (r *CourseRepository) RemoveStudent(ctx context.Context, id, studentID string) (*entity.Course, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	student, err := oid(studentID)
	if err != nil {
		return nil, err
	}
	return r.findAndUpdate(ctx, bson.D{{Key: "_id", Value: _id}}, pull("students", student))
}

func (r *CourseRepository) Students(ctx context.Context, id string) ([]entity.User, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	cur, err := r.col.Aggregate(ctx, courseStudentsPipeline(_id))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		StudentInfo []userDoc `bson:"studentInfo"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	out := make([]entity.User, 0, len(rows[0].StudentInfo))
	for i := range rows[0].StudentInfo {
		out = append(out, *rows[0].StudentInfo[i].toEntity())
	}
	return out, nil
}

func (r *CourseRepository) revenue(ctx context.Context, p mongo.Pipeline) ([]entity.MonthlyRevenue, error) {
	cur, err := r.col.Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Month string  `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.MonthlyRevenue, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.MonthlyRevenue{Month: row.Month, Total: row.Total})
	}
	return out, nil
}

func (r *CourseRepository) RevenueByMonth(ctx context.Context, share float64) ([]entity.MonthlyRevenue, error) {
	return r.revenue(ctx, revenuePipeline(nil, share))
}

func (r *CourseRepository) TutorRevenueByMonth(ctx context.Context, tutorID string, share float64) ([]entity.MonthlyRevenue, error) {
	tutor, err := oid(tutorID)
	if err != nil {
		return []entity.MonthlyRevenue{}, nil
	}
	return r.revenue(ctx, revenuePipeline(bson.D{{Key: "tutor", Value: tutor}}, share))
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
