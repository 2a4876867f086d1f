package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	handlers "github.com/oksasatya/go-learning-platform/internal/interface/http"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
)

type CourseModule struct {
	Handler *handlers.CourseHandler
	c       *container.Container
}

func NewCourseModule(c *container.Container) *CourseModule {
	return &CourseModule{Handler: handlers.NewCourseHandler(c.Courses, c.Logger), c: c}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	rg.GET("/get/courses", m.Handler.List)
	rg.GET("/get/courses/count", m.Handler.Count)
	rg.GET("/get/popular/courses", m.Handler.Popular)
	rg.GET("/get/course/:id", m.Handler.Get)
	rg.GET("/get/courses/language/:name", m.Handler.ByLanguage)
	rg.GET("/get/courses/count/language/:name", m.Handler.CountByLanguage)
	rg.GET("/search/courses", m.Handler.Search)

	tutor := rg.Group("/tutor")
	tutor.Use(middleware.Auth(m.c.JWT, m.c.Sessions, entity.RoleTutor), perUser(m.c))
	{
		tutor.POST("/post/course", m.Handler.Create)
		tutor.PUT("/update/course/:id", m.Handler.Update)
		tutor.PATCH("/list/course/:id", m.Handler.ListCourse)
		tutor.PATCH("/unlist/course/:id", m.Handler.UnlistCourse)
		tutor.GET("/get/courses", m.Handler.TutorCourses)
		tutor.GET("/get/popular/courses", m.Handler.TutorPopular)
		tutor.GET("/get/course/students/:id", m.Handler.Students)
		tutor.PATCH("/remove/student/:id", m.Handler.RemoveStudent)
		tutor.POST("/upload/course/media", m.Handler.UploadMedia)
	}

	student := rg.Group("/")
	student.Use(middleware.Auth(m.c.JWT, m.c.Sessions, entity.RoleStudent), perUser(m.c))
	{
		student.PATCH("/set/selected/course/:id", m.Handler.Enroll)
		student.GET("/student/get/courses", m.Handler.StudentCourses)
	}
}
