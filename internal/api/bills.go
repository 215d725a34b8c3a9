package api

import (
	"github.com/gofiber/fiber/v2"
	"society/internal/billing"
	"society/pkg/models"
)

type generateRequest struct {
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	FlatID       string `json:"flatId"`
	SkipExisting bool   `json:"skipExisting"`
}

func setupBillRoutes(api fiber.Router, h *handler) {
	bills := api.Group("/bills")
	bills.Get("/", h.listBills)
	bills.Post("/generate", h.generateBills)
	bills.Delete("/:id", h.deleteBill)
}

func (h *handler) listBills(c *fiber.Ctx) error {
	month, err := queryInt(c, "month")
	if err != nil {
		return err
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}

	bills, err := h.Bills.ListBills(c.UserContext(), billing.Filter{
		Month:  month,
		Year:   year,
		FlatID: c.Query("flatId"),
		Status: models.BillStatus(c.Query("status")),
	})
	if err != nil {
		return err
	}
	return ok(c, bills)
}

func (h *handler) generateBills(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.Bills.Generate(c.UserContext(), billing.Request{
		Month:        req.Month,
		Year:         req.Year,
		FlatID:       req.FlatID,
		SkipExisting: req.SkipExisting,
	})
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"created": result.Created,
		"skipped": result.Skipped,
	})
}

func (h *handler) deleteBill(c *fiber.Ctx) error {
	if err := h.Bills.DeleteBill(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Bill deleted"})
}
