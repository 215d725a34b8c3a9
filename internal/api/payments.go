package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"society/internal/payment"
	"society/pkg/models"
)

type paymentRequest struct {
	FlatID      string             `json:"flatId"`
	BillID      string             `json:"billId"`
	Amount      decimal.Decimal    `json:"amount"`
	PaymentMode models.PaymentMode `json:"paymentMode"`
	PaymentDate string             `json:"paymentDate"`
	ReferenceNo string             `json:"referenceNo"`
	ReceivedBy  string             `json:"receivedBy"`
	Remarks     string             `json:"remarks"`
}

func setupPaymentRoutes(api fiber.Router, h *handler) {
	payments := api.Group("/payments")
	payments.Get("/", h.listPayments)
	payments.Post("/", h.recordPayment)
	payments.Delete("/:id", h.deletePayment)
}

func (h *handler) listPayments(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return err
	}

	payments, err := h.Payments.List(c.UserContext(), payment.Filter{
		FlatID: c.Query("flatId"),
		BillID: c.Query("billId"),
		Mode:   models.PaymentMode(c.Query("mode")),
		From:   from,
		To:     to,
	})
	if err != nil {
		return err
	}
	return ok(c, payments)
}

func (h *handler) recordPayment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	in := payment.Input{
		FlatID:      req.FlatID,
		BillID:      req.BillID,
		Amount:      req.Amount,
		Mode:        req.PaymentMode,
		ReferenceNo: req.ReferenceNo,
		ReceivedBy:  req.ReceivedBy,
		Remarks:     req.Remarks,
	}
	if req.PaymentDate != "" {
		date, err := ParseDate(req.PaymentDate)
		if err != nil {
			return badRequest(err)
		}
		in.Date = date
	}

	p, err := h.Payments.Record(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, p)
}

func (h *handler) deletePayment(c *fiber.Ctx) error {
	p, err := h.Payments.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, p)
}
