package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/discgolf/backend/internal/models"
	"github.com/anonto42/discgolf/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CourseHandler struct {
	courseRepository repositories.CourseRepository
}

func NewCourseHandler(courseRepo repositories.CourseRepository) *CourseHandler {
	return &CourseHandler{courseRepository: courseRepo}
}

func (h *CourseHandler) RegisterCourseRoutes(g *echo.Group) {
	g.GET("/courses", h.GetCourses)
	g.POST("/courses", h.CreateCourse)
	g.GET("/courses/:id", h.GetCourse)
}

func (h *CourseHandler) CreateCourse(c echo.Context) error {
	var req models.CreateCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	course := &models.Course{
		Name:      req.Name,
		Location:  req.Location,
		HoleCount: req.HoleCount,
		Par:       req.Par,
	}
	// three per hole when no par is given
	if course.Par == 0 {
		course.Par = 3 * course.HoleCount
	}

	if err := h.courseRepository.CreateCourse(c.Request().Context(), course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "A course with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) GetCourse(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	course, err := h.courseRepository.GetCourseByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Course not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) GetCourses(c echo.Context) error {
	courses, err := h.courseRepository.GetCourses(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, courses)
}
