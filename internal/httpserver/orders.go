package httpserver

import (
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"flowershop/internal/domain"
	ordersvc "flowershop/internal/service/order"

	"github.com/gin-gonic/gin"
)

const (
	receiptUploadField = "receipt"
	maxReceiptUpload   = 15 << 20
)

type createOrderRequest struct {
	Items               []orderItemRequest `json:"items"`
	Total               flexFloat          `json:"total"`
	DeliveryDate        string             `json:"deliveryDate"`
	DeliveryTime        string             `json:"deliveryTime"`
	SenderName          string             `json:"senderName"`
	SenderPhone         string             `json:"senderPhone"`
	RecipientName       string             `json:"recipientName"`
	RecipientPhone      string             `json:"recipientPhone"`
	Address             string             `json:"address"`
	MessageCard         string             `json:"messageCard"`
	SpecialInstructions string             `json:"specialInstructions"`
}

type orderItemRequest struct {
	Product  flexRef        `json:"product"`
	Quantity flexInt        `json:"quantity"`
	Price    flexFloat      `json:"price"`
	AddOns   []addOnRequest `json:"addOns"`
}

type addOnRequest struct {
	AddOn         flexRef   `json:"addOn"`
	Quantity      flexInt   `json:"quantity"`
	Price         flexFloat `json:"price"`
	CustomMessage string    `json:"customMessage"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (r createOrderRequest) toInput() ordersvc.CreateInput {
	in := ordersvc.CreateInput{
		Total:               float64(r.Total),
		DeliveryDate:        r.DeliveryDate,
		DeliveryTime:        r.DeliveryTime,
		SenderName:          r.SenderName,
		SenderPhone:         r.SenderPhone,
		RecipientName:       r.RecipientName,
		RecipientPhone:      r.RecipientPhone,
		Address:             r.Address,
		MessageCard:         r.MessageCard,
		SpecialInstructions: r.SpecialInstructions,
	}
	for _, it := range r.Items {
		item := ordersvc.ItemInput{
			ProductID: string(it.Product),
			Quantity:  int(it.Quantity),
			Price:     float64(it.Price),
		}
		for _, a := range it.AddOns {
			item.AddOns = append(item.AddOns, ordersvc.AddOnInput{
				AddOnID:       string(a.AddOn),
				Quantity:      int(a.Quantity),
				Price:         float64(a.Price),
				CustomMessage: a.CustomMessage,
			})
		}
		in.Items = append(in.Items, item)
	}
	return in
}

func (h *handlers) createOrder(c *gin.Context) {
	actor, _ := actorFromContext(c.Request.Context())
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid order payload")
		return
	}
	o, err := h.deps.OrderSvc.Create(c.Request.Context(), actor, req.toInput())
	if err != nil {
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *handlers) listUserOrders(c *gin.Context) {
	actor, _ := actorFromContext(c.Request.Context())
	list, err := h.deps.OrderSvc.ListByUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusOK, nonNilOrders(list))
}

func (h *handlers) listAllOrders(c *gin.Context) {
	actor, _ := actorFromContext(c.Request.Context())
	list, err := h.deps.OrderSvc.ListAll(c.Request.Context(), actor)
	if err != nil {
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusOK, nonNilOrders(list))
}

func (h *handlers) getOrder(c *gin.Context) {
	actor, _ := actorFromContext(c.Request.Context())
	o, err := h.deps.OrderSvc.Get(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) updateStatus(c *gin.Context) {
	actor, _ := actorFromContext(c.Request.Context())
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid status payload")
		return
	}
	o, err := h.deps.OrderSvc.SetStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(strings.TrimSpace(req.Status)), actor.ID)
	if err != nil {
		if mapErrorToStatus(err) == http.StatusBadRequest {
			abortWithMessage(c, http.StatusBadRequest, "Invalid status")
			return
		}
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) completeOrder(c *gin.Context) {
	o, err := h.deps.OrderSvc.MarkCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) uploadReceipt(c *gin.Context) {
	actor, _ := actorFromContext(c.Request.Context())
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxReceiptUpload)
	fh, err := c.FormFile(receiptUploadField)
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, "No receipt uploaded")
		return
	}
	if h.deps.Uploads == nil {
		abortWithMessage(c, http.StatusInternalServerError, "Uploads are not configured")
		return
	}

	src, err := fh.Open()
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, "No receipt uploaded")
		return
	}
	defer src.Close()

	name := fmt.Sprintf("%d_%s", h.deps.Now().UnixMilli(), safeFileName(fh.Filename))
	pointer, err := h.deps.Uploads.Put(name, src)
	if err != nil {
		h.logger.Printf("api: save upload name=%s error=%v", name, err)
		abortWithMessage(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	o, err := h.deps.OrderSvc.AttachUploadedReceipt(c.Request.Context(), c.Param("id"), pointer, actor.ID)
	if err != nil {
		if rmErr := h.deps.Uploads.Remove(pointer); rmErr != nil {
			h.logger.Printf("api: remove upload pointer=%s error=%v", pointer, rmErr)
		}
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt uploaded", "order": o})
}

func (h *handlers) receiptHTML(c *gin.Context) {
	actor, _ := actorFromContext(c.Request.Context())
	html, err := h.deps.OrderSvc.ReceiptHTML(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": html})
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = unsafeFileChars.ReplaceAllString(base, "_")
	base = strings.TrimLeft(base, ".")
	if base == "" {
		return "receipt"
	}
	return base
}

func nonNilOrders(list []domain.Order) []domain.Order {
	if list == nil {
		return []domain.Order{}
	}
	return list
}
