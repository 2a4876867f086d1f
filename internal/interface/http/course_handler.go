package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

type CourseHandler struct {
	Svc    *application.CourseService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *application.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

type sessionRequest struct {
	Session     string `json:"session" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type assignmentRequest struct {
	Question string   `json:"question" binding:"required"`
	RightAns string   `json:"rightAns" binding:"required"`
	Options  []string `json:"options" binding:"required,min=2,dive,required"`
}

type courseRequest struct {
	CourseName       string              `json:"coursename" binding:"required,min=3,max=120"`
	Description      string              `json:"description" binding:"required"`
	ShortDescription string              `json:"shortDescription" binding:"required,max=300"`
	Category         string              `json:"category" binding:"required"`
	Language         string              `json:"language" binding:"required"`
	IsPaid           bool                `json:"isPaid"`
	Price            float64             `json:"price" binding:"gte=0"`
	Level            string              `json:"level" binding:"required"`
	ImgURL           string              `json:"imgUrl" binding:"required,url"`
	VideoURL         string              `json:"videoUrl" binding:"required,url"`
	Syllabus         []sessionRequest    `json:"sylabus" binding:"dive"`
	Assignments      []assignmentRequest `json:"assignments" binding:"dive"`
}

func (r courseRequest) toUpdate() entity.CourseUpdate {
	in := entity.CourseUpdate{
		CourseName:       r.CourseName,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		Category:         r.Category,
		Language:         r.Language,
		IsPaid:           r.IsPaid,
		Price:            r.Price,
		Level:            r.Level,
		ImgURL:           r.ImgURL,
		VideoURL:         r.VideoURL,
	}
	for _, s := range r.Syllabus {
		in.Syllabus = append(in.Syllabus, entity.Session{Session: s.Session, Description: s.Description})
	}
	for _, a := range r.Assignments {
		in.Assignments = append(in.Assignments, entity.Assignment{Question: a.Question, RightAns: a.RightAns, Options: a.Options})
	}
	return in
}

type nameURI struct {
	Name string `uri:"name" binding:"required,max=60"`
}

type removeStudentRequest struct {
	StudentID string `json:"studentId" binding:"required,objectid"`
}

func (h *CourseHandler) list(c *gin.Context, op string, fn func() ([]entity.Course, error)) {
	courses, err := fn()
	if err != nil {
		fail(c, h.Logger, op, err)
		return
	}
	response.Success(c, http.StatusOK, "Courses fetched sucessfully", "courses", courses)
}

func (h *CourseHandler) count(c *gin.Context, op string, fn func() (int64, error)) {
	n, err := fn()
	if err != nil {
		fail(c, h.Logger, op, err)
		return
	}
	response.Success(c, http.StatusOK, "Courses counted successfully", "count", n)
}

// List GET /api/get/courses
func (h *CourseHandler) List(c *gin.Context) {
	h.list(c, "course list failed", func() ([]entity.Course, error) { return h.Svc.List(c.Request.Context()) })
}

// Count GET /api/get/courses/count
func (h *CourseHandler) Count(c *gin.Context) {
	h.count(c, "course count failed", func() (int64, error) { return h.Svc.Count(c.Request.Context()) })
}

// Popular GET /api/get/popular/courses
func (h *CourseHandler) Popular(c *gin.Context) {
	h.list(c, "popular courses failed", func() ([]entity.Course, error) { return h.Svc.Popular(c.Request.Context()) })
}

// Get GET /api/get/course/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	d, err := h.Svc.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, "course fetch failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Course fetched successfully", "course", d)
}

// ByLanguage GET /api/get/courses/language/:name
func (h *CourseHandler) ByLanguage(c *gin.Context) {
	var u nameURI
	if err := c.ShouldBindUri(&u); err != nil {
		response.Invalid(c, err)
		return
	}
	h.list(c, "courses by language failed", func() ([]entity.Course, error) { return h.Svc.ByLanguage(c.Request.Context(), u.Name) })
}

// CountByLanguage GET /api/get/courses/count/language/:name
func (h *CourseHandler) CountByLanguage(c *gin.Context) {
	var u nameURI
	if err := c.ShouldBindUri(&u); err != nil {
		response.Invalid(c, err)
		return
	}
	h.count(c, "course count by language failed", func() (int64, error) { return h.Svc.CountByLanguage(c.Request.Context(), u.Name) })
}

// Search GET /api/search/courses?q=&size=
func (h *CourseHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchCourses(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, "course search failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Courses fetched sucessfully", "courses", hits)
}

// Create POST /api/tutor/post/course
func (h *CourseHandler) Create(c *gin.Context) {
	var req courseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.toUpdate())
	if err != nil {
		fail(c, h.Logger, "course create failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "Course added successfully", "course", course)
}

// Update PUT /api/tutor/update/course/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req courseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.Svc.Update(c.Request.Context(), id, middleware.UserID(c), req.toUpdate())
	if err != nil {
		fail(c, h.Logger, "course update failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Course updated successfully", "course", course)
}

func (h *CourseHandler) setListed(c *gin.Context, listed bool, message string) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	course, err := h.Svc.SetListed(c.Request.Context(), id, middleware.UserID(c), listed)
	if err != nil {
		fail(c, h.Logger, "course status change failed", err)
		return
	}
	response.Success(c, http.StatusOK, message, "course", course)
}

// ListCourse PATCH /api/tutor/list/course/:id
func (h *CourseHandler) ListCourse(c *gin.Context) {
	h.setListed(c, true, "Course listed successfully")
}

// UnlistCourse PATCH /api/tutor/unlist/course/:id
func (h *CourseHandler) UnlistCourse(c *gin.Context) {
	h.setListed(c, false, "Course unlisted successfully")
}

// TutorCourses GET /api/tutor/get/courses
func (h *CourseHandler) TutorCourses(c *gin.Context) {
	h.list(c, "tutor courses failed", func() ([]entity.Course, error) {
		return h.Svc.TutorCourses(c.Request.Context(), middleware.UserID(c))
	})
}

// TutorPopular GET /api/tutor/get/popular/courses
func (h *CourseHandler) TutorPopular(c *gin.Context) {
	h.list(c, "tutor popular courses failed", func() ([]entity.Course, error) {
		return h.Svc.TutorPopular(c.Request.Context(), middleware.UserID(c))
	})
}

// Students GET /api/tutor/get/course/students/:id
func (h *CourseHandler) Students(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	students, err := h.Svc.Students(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, "course students failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Students fetched successfully", "students", students)
}

// RemoveStudent PATCH /api/tutor/remove/student/:id
func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req removeStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.Svc.RemoveStudent(c.Request.Context(), id, middleware.UserID(c), req.StudentID)
	if err != nil {
		fail(c, h.Logger, "remove student failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Student removed successfully", "course", course)
}

// UploadMedia POST /api/tutor/upload/course/media (multipart field "file")
func (h *CourseHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "File is required")
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
		response.Error(c, http.StatusBadRequest, "Only image or video files are allowed")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Internal(c, h.Logger, "open upload failed", err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadMedia(c.Request.Context(), middleware.UserID(c), fh.Filename, ct, f)
	if err != nil {
		fail(c, h.Logger, "course media upload failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "File uploaded successfully", "url", url)
}

// Enroll PATCH /api/set/selected/course/:id
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	course, err := h.Svc.Enroll(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, "enroll failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Course purchased successfully", "course", course)
}

// StudentCourses GET /api/student/get/courses
func (h *CourseHandler) StudentCourses(c *gin.Context) {
	h.list(c, "student courses failed", func() ([]entity.Course, error) {
		return h.Svc.StudentCourses(c.Request.Context(), middleware.UserID(c))
	})
}
