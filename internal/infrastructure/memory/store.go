// Package memory keeps every aggregate in process memory. It backs STORE_DRIVER=memory for
// local runs and serves as the store fake in tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

type Store struct {
	mu         sync.RWMutex
	users      map[string]*entity.User
	courses    map[string]*entity.Course
	reviews    map[string]*entity.Review
	categories map[string]*entity.Category
	languages  map[string]*entity.Language
	chats      map[string]*entity.Chat
	messages   map[string][]entity.Message

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      map[string]*entity.User{},
		courses:    map[string]*entity.Course{},
		reviews:    map[string]*entity.Review{},
		categories: map[string]*entity.Category{},
		languages:  map[string]*entity.Language{},
		chats:      map[string]*entity.Chat{},
		messages:   map[string][]entity.Message{},
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// newID returns an object id hex so ids look the same as with the mongo driver.
func newID() string { return primitive.NewObjectID().Hex() }

// sortedKeys returns map keys in creation order (object ids grow monotonically within a process).
func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func addToSet(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

func pull(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func copyUser(u *entity.User, withPassword bool) entity.User {
	c := *u
	c.Following = cloneStrings(u.Following)
	c.Followers = cloneStrings(u.Followers)
	if !withPassword {
		c.Password = ""
	}
	return c
}

func copyCourse(c *entity.Course) entity.Course {
	out := *c
	out.Students = cloneStrings(c.Students)
	out.Syllabus = append([]entity.Session(nil), c.Syllabus...)
	out.Assignments = append([]entity.Assignment(nil), c.Assignments...)
	out.PurchaseHistory = append([]entity.Purchase(nil), c.PurchaseHistory...)
	return out
}

// tutorListed mirrors the lookup filter `tutorInfo.status != false`: a missing tutor still matches.
func (s *Store) tutorListed(tutorID string) bool {
	t, ok := s.users[tutorID]
	return !ok || t.Status
}
