package response

import "github.com/gofiber/fiber/v2"

// Envelope status values
const (
	StatusSuccess = "success"
	StatusFail    = "fail"  // client error, 4xx
	StatusError   = "error" // server error, 5xx
)

// Response represents a standard API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Results *int        `json:"results,omitempty"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// List sends a 200 response carrying a result count
func List(c *fiber.Ctx, count int, data interface{}) error {
	return c.JSON(Response{
		Status:  StatusSuccess,
		Results: &count,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// WithToken sends a 200 response with a session token
func WithToken(c *fiber.Ctx, token string, data interface{}) error {
	return c.JSON(Response{
		Status: StatusSuccess,
		Token:  token,
		Data:   data,
	})
}

// Fail sends a 4xx response
func Fail(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  StatusFail,
		Message: message,
	})
}

// Error sends a 5xx response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  StatusError,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, "Internal Server Error")
}
