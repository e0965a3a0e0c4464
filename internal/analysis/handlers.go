package analysis

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"backend-journeystress/internal/ingest"
	"backend-journeystress/internal/survey"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		if len(c.Body()) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "feature collection required")
		}
		raw, err := ingest.DecodeFeatureCollection(bytes.NewReader(c.Body()))
		if err != nil {
			return RespondError(c, err)
		}
		report, err := svc.Analyze(c.Context(), raw)
		if err != nil {
			return RespondError(c, err)
		}
		return c.JSON(report)
	})
}

// RespondError maps core error kinds onto HTTP statuses.
func RespondError(c *fiber.Ctx, err error) error {
	var (
		perr  *survey.ParseError
		verr  *survey.ValidationError
		empty *survey.EmptyInputError
	)
	status, kind := fiber.StatusInternalServerError, "internal"
	switch {
	case errors.As(err, &perr):
		status, kind = fiber.StatusBadRequest, "parse"
	case errors.As(err, &verr):
		status, kind = fiber.StatusUnprocessableEntity, "validation"
	case errors.As(err, &empty):
		status, kind = fiber.StatusUnprocessableEntity, "empty_input"
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": kind})
}
