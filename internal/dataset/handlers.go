package dataset

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"backend-journeystress/internal/analysis"
	"backend-journeystress/internal/ingest"
)

func RegisterRoutes(r fiber.Router, store *Store, svc *analysis.Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		buckets, err := store.Buckets(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(buckets)
	})

	r.Get("/:day/:range/analysis", func(c *fiber.Ctx) error {
		bucket := ingest.Bucket{Day: c.Params("day"), Range: c.Params("range")}
		if !slices.Contains(ingest.Weekdays, bucket.Day) || !slices.Contains(ingest.TimeRanges, bucket.Range) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown bucket "+bucket.String())
		}
		raw, err := store.Features(c.Context(), bucket)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if len(raw) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "dataset not found")
		}
		report, err := svc.Analyze(c.Context(), raw)
		if err != nil {
			return analysis.RespondError(c, err)
		}
		return c.JSON(report)
	})
}
