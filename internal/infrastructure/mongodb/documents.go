package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

type userDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Username  string               `bson:"username"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password,omitempty"`
	Role      string               `bson:"role"`
	Status    bool                 `bson:"status"`
	IsGoogle  bool                 `bson:"isGoogle"`
	Profile   string               `bson:"profile,omitempty"`
	Following []primitive.ObjectID `bson:"following"`
	Followers []primitive.ObjectID `bson:"followers"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d *userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Email:     d.Email,
		Password:  d.Password,
		Role:      entity.Role(d.Role),
		Status:    d.Status,
		IsGoogle:  d.IsGoogle,
		Profile:   d.Profile,
		Following: hexes(d.Following),
		Followers: hexes(d.Followers),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *userDoc) summary() entity.UserSummary {
	return entity.UserSummary{ID: d.ID.Hex(), Username: d.Username, Email: d.Email, Profile: d.Profile}
}

func newUserDoc(u *entity.User) *userDoc {
	return &userDoc{
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		Status:    u.Status,
		IsGoogle:  u.IsGoogle,
		Profile:   u.Profile,
		Following: oids(u.Following),
		Followers: oids(u.Followers),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type purchaseDoc struct {
	StudentID primitive.ObjectID `bson:"studentId"`
	Date      time.Time          `bson:"date"`
	Price     float64            `bson:"price"`
	Month     string             `bson:"month"`
}

type sessionDoc struct {
	Session     string `bson:"session"`
	Description string `bson:"description"`
}

type assignmentDoc struct {
	Question string   `bson:"question"`
	RightAns string   `bson:"rightAns"`
	Options  []string `bson:"options"`
}

type courseDoc struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Tutor            primitive.ObjectID   `bson:"tutor"`
	CourseName       string               `bson:"coursename"`
	Description      string               `bson:"description"`
	ShortDescription string               `bson:"shortDescription"`
	Status           bool                 `bson:"status"`
	Category         string               `bson:"category"`
	Language         string               `bson:"language"`
	IsPaid           bool                 `bson:"isPaid"`
	Price            float64              `bson:"price"`
	Level            string               `bson:"level"`
	ImgURL           string               `bson:"imgUrl"`
	VideoURL         string               `bson:"videoUrl"`
	Rating           float64              `bson:"rating"`
	Syllabus         []sessionDoc         `bson:"sylabus"`
	Assignments      []assignmentDoc      `bson:"assignments"`
	Students         []primitive.ObjectID `bson:"students"`
	PurchaseHistory  []purchaseDoc        `bson:"purchaseHistory"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`

	// populated by the tutor lookup stage
	TutorInfo []userDoc `bson:"tutorInfo,omitempty"`
}

func (d *courseDoc) toEntity() *entity.Course {
	c := &entity.Course{
		ID:               d.ID.Hex(),
		TutorID:          d.Tutor.Hex(),
		CourseName:       d.CourseName,
		Description:      d.Description,
		ShortDescription: d.ShortDescription,
		Status:           d.Status,
		Category:         d.Category,
		Language:         d.Language,
		IsPaid:           d.IsPaid,
		Price:            d.Price,
		Level:            d.Level,
		ImgURL:           d.ImgURL,
		VideoURL:         d.VideoURL,
		Rating:           d.Rating,
		Syllabus:         sessionsFromDocs(d.Syllabus),
		Assignments:      assignmentsFromDocs(d.Assignments),
		Students:         hexes(d.Students),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	for _, p := range d.PurchaseHistory {
		c.PurchaseHistory = append(c.PurchaseHistory, entity.Purchase{
			StudentID: p.StudentID.Hex(), Date: p.Date, Price: p.Price, Month: p.Month,
		})
	}
	return c
}

func newCourseDoc(c *entity.Course) (*courseDoc, error) {
	tutor, err := oid(c.TutorID)
	if err != nil {
		return nil, err
	}
	d := &courseDoc{
		Tutor:            tutor,
		CourseName:       c.CourseName,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Status:           c.Status,
		Category:         c.Category,
		Language:         c.Language,
		IsPaid:           c.IsPaid,
		Price:            c.Price,
		Level:            c.Level,
		ImgURL:           c.ImgURL,
		VideoURL:         c.VideoURL,
		Rating:           c.Rating,
		Syllabus:         sessionDocs(c.Syllabus),
		Assignments:      assignmentDocs(c.Assignments),
		Students:         oids(c.Students),
		PurchaseHistory:  []purchaseDoc{},
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	return d, nil
}

func sessionDocs(in []entity.Session) []sessionDoc {
	out := make([]sessionDoc, len(in))
	for i, s := range in {
		out[i] = sessionDoc(s)
	}
	return out
}

func sessionsFromDocs(in []sessionDoc) []entity.Session {
	out := make([]entity.Session, len(in))
	for i, s := range in {
		out[i] = entity.Session(s)
	}
	return out
}

func assignmentDocs(in []entity.Assignment) []assignmentDoc {
	out := make([]assignmentDoc, len(in))
	for i, a := range in {
		out[i] = assignmentDoc(a)
	}
	return out
}

func assignmentsFromDocs(in []assignmentDoc) []entity.Assignment {
	out := make([]entity.Assignment, len(in))
	for i, a := range in {
		out[i] = entity.Assignment(a)
	}
	return out
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Course    primitive.ObjectID `bson:"course"`
	User      primitive.ObjectID `bson:"user"`
	Review    string             `bson:"review"`
	Rating    float64            `bson:"rating"`
	CreatedAt time.Time          `bson:"createdAt"`

	UserInfo []userDoc `bson:"userInfo,omitempty"`
}

func (d *reviewDoc) toEntity() *entity.Review {
	return &entity.Review{
		ID:        d.ID.Hex(),
		CourseID:  d.Course.Hex(),
		UserID:    d.User.Hex(),
		Review:    d.Review,
		Rating:    d.Rating,
		CreatedAt: d.CreatedAt,
	}
}

func (d *reviewDoc) withUser() entity.ReviewWithUser {
	out := entity.ReviewWithUser{Review: *d.toEntity()}
	if len(d.UserInfo) > 0 {
		out.User = d.UserInfo[0].summary()
	}
	return out
}

type categoryDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CategoryName string             `bson:"categoryname"`
	Description  string             `bson:"description"`
	Status       bool               `bson:"status"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d *categoryDoc) toEntity() *entity.Category {
	return &entity.Category{
		ID: d.ID.Hex(), CategoryName: d.CategoryName, Description: d.Description,
		Status: d.Status, CreatedAt: d.CreatedAt,
	}
}

type languageDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	LanguageName string             `bson:"languagename"`
	Description  string             `bson:"description"`
	Status       bool               `bson:"status"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d *languageDoc) toEntity() *entity.Language {
	return &entity.Language{
		ID: d.ID.Hex(), LanguageName: d.LanguageName, Description: d.Description,
		Status: d.Status, CreatedAt: d.CreatedAt,
	}
}

type chatDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Users         []primitive.ObjectID `bson:"users"`
	LatestMessage primitive.ObjectID   `bson:"latestMessage,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d *chatDoc) toEntity() *entity.Chat {
	c := &entity.Chat{ID: d.ID.Hex(), Users: hexes(d.Users), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
	if !d.LatestMessage.IsZero() {
		c.LatestMessage = d.LatestMessage.Hex()
	}
	return c
}

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Chat      primitive.ObjectID `bson:"chat"`
	Sender    primitive.ObjectID `bson:"sender"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *messageDoc) toEntity() entity.Message {
	return entity.Message{
		ID: d.ID.Hex(), ChatID: d.Chat.Hex(), Sender: d.Sender.Hex(),
		Content: d.Content, CreatedAt: d.CreatedAt,
	}
}
