package api

import (
	"github.com/gofiber/fiber/v2"
	"society/internal/ledger"
	"society/internal/reports"
	"society/internal/storage"
	"society/pkg/models"
)

func setupReportRoutes(api fiber.Router, h *handler) {
	api.Get("/flats/:id/ledger", h.flatLedger)

	r := api.Group("/reports")
	r.Get("/outstanding", h.outstandingReport)
	r.Get("/collection", h.collectionReport)
	r.Get("/fee-position", h.feePositionReport)
	r.Get("/income-expense", h.incomeExpenseReport)
	r.Get("/dashboard", h.dashboard)
}

func (h *handler) flatLedger(c *fiber.Ctx) error {
	l, err := ledger.ForFlat(c.UserContext(), h.Store, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, l)
}

func (h *handler) outstandingReport(c *fiber.Ctx) error {
	ws, err := storage.LoadWorkspace(c.UserContext(), h.Store)
	if err != nil {
		return err
	}
	return ok(c, reports.Outstanding(ws, h.Now()))
}

func (h *handler) collectionReport(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return err
	}
	if from.IsZero() || to.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "from and to dates are required")
	}

	ws, err := storage.LoadWorkspace(c.UserContext(), h.Store)
	if err != nil {
		return err
	}
	return ok(c, reports.Collection(ws, from, to))
}

func (h *handler) feePositionReport(c *fiber.Ctx) error {
	asOf, err := queryDate(c, "asOf")
	if err != nil {
		return err
	}
	if asOf.IsZero() {
		asOf = h.Now()
	}

	ws, err := storage.LoadWorkspace(c.UserContext(), h.Store)
	if err != nil {
		return err
	}
	return ok(c, reports.FeePosition(ws, asOf, c.Query("buildingId")))
}

func (h *handler) incomeExpenseReport(c *fiber.Ctx) error {
	fy := models.FinancialYearOf(h.Now())
	start, err := queryInt(c, "fy")
	if err != nil {
		return err
	}
	if start > 0 {
		fy = models.FinancialYear(start)
	}

	ws, err := storage.LoadWorkspace(c.UserContext(), h.Store)
	if err != nil {
		return err
	}
	return ok(c, reports.IncomeExpense(ws, fy))
}

func (h *handler) dashboard(c *fiber.Ctx) error {
	ws, err := storage.LoadWorkspace(c.UserContext(), h.Store)
	if err != nil {
		return err
	}
	return ok(c, reports.Summarize(ws, h.Now()))
}
