package api

import (
	"bytes"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"society/internal/expense"
	"society/pkg/models"
)

type receiptUpload struct {
	FileName string `json:"fileName"`
	// Data is the base64 encoded image.
	Data string `json:"data"`
}

type expenseRequest struct {
	Date          string                 `json:"date"`
	Category      models.ExpenseCategory `json:"category"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	PaidTo        string                 `json:"paidTo"`
	ReceiptNumber string                 `json:"receiptNumber"`
	PaymentMode   models.PaymentMode     `json:"paymentMode"`
	Notes         string                 `json:"notes"`
	Receipt       *receiptUpload         `json:"receipt"`
}

func setupExpenseRoutes(api fiber.Router, h *handler) {
	expenses := api.Group("/expenses")
	expenses.Get("/", h.listExpenses)
	expenses.Post("/", h.saveExpense)
	expenses.Put("/:id", h.saveExpense)
	expenses.Delete("/:id", h.deleteExpense)
}

func (h *handler) listExpenses(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return err
	}

	expenses, err := h.Expenses.List(c.UserContext(), expense.Filter{
		Category: models.ExpenseCategory(c.Query("category")),
		From:     from,
		To:       to,
	})
	if err != nil {
		return err
	}
	return ok(c, expenses)
}

func (h *handler) saveExpense(c *fiber.Ctx) error {
	var req expenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	in := expense.Input{
		ID:            c.Params("id"),
		Category:      req.Category,
		Description:   req.Description,
		Amount:        req.Amount,
		PaidTo:        req.PaidTo,
		ReceiptNumber: req.ReceiptNumber,
		PaymentMode:   req.PaymentMode,
		Notes:         req.Notes,
	}
	if req.Date != "" {
		date, err := ParseDate(req.Date)
		if err != nil {
			return badRequest(err)
		}
		in.Date = date
	}
	if req.Receipt != nil && req.Receipt.Data != "" {
		data, err := base64.StdEncoding.DecodeString(req.Receipt.Data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "receipt data must be base64 encoded")
		}
		in.Receipt = &expense.Receipt{FileName: req.Receipt.FileName, Content: bytes.NewReader(data)}
	}

	e, err := h.Expenses.Save(c.UserContext(), in)
	if err != nil {
		return err
	}
	if in.ID != "" {
		return ok(c, e)
	}
	return created(c, e)
}

func (h *handler) deleteExpense(c *fiber.Ctx) error {
	if err := h.Expenses.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Expense deleted"})
}
