package handlers

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

type StudentHandler struct {
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// Register enrols a student from a multipart form: name, department and the
// reference face image.
func (h *StudentHandler) Register(c *fiber.Ctx) error {
	name := c.FormValue("name")
	department := c.FormValue("department")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return serviceErrorResponse(c, "Image file is required", services.ErrImageRequired)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to open uploaded image", err)
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded image", err)
	}

	student, err := h.studentService.Register(c.UserContext(), services.RegisterStudentInput{
		Name:       name,
		Department: department,
		ImageData:  imageData,
		MimeType:   fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return serviceErrorResponse(c, "Failed to register student", err)
	}

	return utils.CreatedResponse(c, "Student registered successfully", student)
}

func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.studentService.List(c.UserContext())
	if err != nil {
		return serviceErrorResponse(c, "Failed to list students", err)
	}

	return utils.SuccessResponse(c, "Students retrieved successfully", students)
}

func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid student ID", err)
	}

	if err := h.studentService.Delete(c.UserContext(), uint(id)); err != nil {
		return serviceErrorResponse(c, "Failed to delete student", err)
	}

	return utils.SuccessResponse(c, "Student deleted successfully", nil)
}
