package middleware

import (
	"errors"
	"log"
	"time"

	"imc-punching/internal/config"
	"imc-punching/internal/core/domain"
	"imc-punching/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	// Recover middleware - catches panics
	app.Use(recover.New())

	// Gzip Compression middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Security Headers middleware (Helmet). Photos are loaded cross-origin by the app.
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		PermissionPolicy:          "microphone=()",
	}))

	// Rate Limiter middleware - General API (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Fail(c, fiber.StatusTooManyRequests, "Too many requests")
		},
	}))

	// Logger middleware
	if cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	} else {
		app.Use(logger.New(logger.Config{
			Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	// CORS middleware
	if cfg.IsDev() {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     "*",
			AllowMethods:     "GET,POST,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
			AllowCredentials: false, // Cannot be true with AllowOrigins: "*"
		}))
	} else {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.GetAllowedOrigins(),
			AllowMethods:     "GET,POST,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
			AllowCredentials: true,
		}))
	}
}

// AuthRateLimiter creates a stricter rate limiter for login
// 5 requests per minute per IP
func AuthRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "-auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Fail(c, fiber.StatusTooManyRequests, "Too many login attempts, try again in a minute")
		},
	})
}

// statusFor maps domain errors to HTTP status codes
var statusFor = []struct {
	err  error
	code int
}{
	{domain.ErrMissingField, fiber.StatusBadRequest},
	{domain.ErrInvalidTimeFormat, fiber.StatusBadRequest},
	{domain.ErrInvalidDateFormat, fiber.StatusBadRequest},
	{domain.ErrMissingPhoto, fiber.StatusBadRequest},
	{domain.ErrPunchOutBeforePunchIn, fiber.StatusBadRequest},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized},
	{domain.ErrTokenInvalid, fiber.StatusUnauthorized},
	{domain.ErrForbidden, fiber.StatusForbidden},
	{domain.ErrNotFound, fiber.StatusNotFound},
	{domain.ErrAlreadyCompleted, fiber.StatusConflict},
	{domain.ErrPayloadTooLarge, fiber.StatusRequestEntityTooLarge},
	{domain.ErrUnsupportedMediaType, fiber.StatusUnsupportedMediaType},
}

// messages overrides the error text sent for some failures
var messages = map[error]string{
	domain.ErrUnauthorized:       "Unauthorized",
	domain.ErrTokenInvalid:       "Token invalid",
	domain.ErrForbidden:          "Forbidden",
	domain.ErrInvalidCredentials: "Invalid credentials",
	domain.ErrNotFound:           "Punch record not found",
}

// CustomErrorHandler handles errors globally
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	// Internal failures are logged in full and answered without detail,
	// whatever else they wrap
	if errors.Is(err, domain.ErrInternal) {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c)
	}

	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			message, ok := messages[m.err]
			if !ok {
				message = err.Error()
			}
			return response.Fail(c, m.code, message)
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusRequestEntityTooLarge {
			return response.Fail(c, fe.Code, domain.ErrPayloadTooLarge.Error())
		}
		if fe.Code < fiber.StatusInternalServerError {
			return response.Fail(c, fe.Code, fe.Message)
		}
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c)
}
