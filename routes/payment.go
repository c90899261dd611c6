package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/Jossyboydgenius/Real-Estate-Booking/models"
	"github.com/Jossyboydgenius/Real-Estate-Booking/storage"
	"github.com/Jossyboydgenius/Real-Estate-Booking/utils"
)

var validCurrencies = []string{"USD", "EUR", "GBP", "CAD", "AUD"}

var validPaymentStatuses = []string{
	models.PaymentStatusCompleted,
	models.PaymentStatusFailed,
	models.PaymentStatusRefunded,
}

func CreatePaymentIntent(ctx iris.Context) {
	var input CreatePaymentIntentInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Amount <= 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{
			"success": false,
			"message": "Amount must be a positive number",
		})
		return
	}

	currency := strings.ToUpper(input.Currency)
	if !slices.Contains(validCurrencies, currency) {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{
			"success": false,
			"message": "Invalid currency. Supported currencies: " + strings.Join(validCurrencies, ", "),
		})
		return
	}

	// Fast path: refuse duplicates before minting a new transaction. The
	// composite unique index below is still the source of truth.
	var existing models.Payment
	existingQuery := storage.DB.
		Where("property_id = ? AND user_id = ?", input.PropertyID, input.UserID).
		Limit(1).Find(&existing)
	if existingQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if existingQuery.RowsAffected > 0 {
		respondDuplicatePayment(ctx, &existing)
		return
	}

	payment := models.Payment{
		PropertyID:      input.PropertyID,
		UserID:          input.UserID,
		Amount:          input.Amount,
		Currency:        currency,
		Status:          models.PaymentStatusPending,
		PaymentIntentID: utils.GenerateTransactionID(),
	}

	if createErr := storage.DB.Create(&payment).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			// Lost a create race; report whatever the winner wrote.
			if storage.DB.Where("property_id = ? AND user_id = ?", input.PropertyID, input.UserID).
				First(&existing).Error == nil {
				respondDuplicatePayment(ctx, &existing)
				return
			}
			ctx.StatusCode(http.StatusConflict)
			ctx.JSON(iris.Map{
				"success": false,
				"message": "A payment already exists for this property",
			})
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Payment transaction created successfully",
		"data": iris.Map{
			"paymentId":     payment.ID,
			"transactionId": payment.PaymentIntentID,
			"amount":        payment.Amount,
			"currency":      payment.Currency,
			"status":        payment.Status,
		},
	})
}

func respondDuplicatePayment(ctx iris.Context, existing *models.Payment) {
	switch existing.Status {
	case models.PaymentStatusCompleted:
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{
			"success":   false,
			"message":   "Payment already completed for this property",
			"paymentId": existing.ID,
		})
	case models.PaymentStatusPending:
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{
			"success":       false,
			"message":       "A pending payment already exists for this property",
			"paymentId":     existing.ID,
			"transactionId": existing.PaymentIntentID,
		})
	default:
		// FAILED/REFUNDED rows keep the slot under the unique index, so a
		// fresh intent cannot be inserted for this pair.
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{
			"success":   false,
			"message":   "A payment already exists for this property",
			"paymentId": existing.ID,
		})
	}
}

func ProcessPayment(ctx iris.Context) {
	var input ProcessPaymentInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(validPaymentStatuses, input.Status) {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{
			"success": false,
			"message": "Invalid status. Valid statuses: " + strings.Join(validPaymentStatuses, ", "),
		})
		return
	}

	var payment models.Payment
	if findErr := storage.DB.Where("payment_intent_id = ?", input.TransactionID).First(&payment).Error; findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			ctx.StatusCode(http.StatusNotFound)
			ctx.JSON(iris.Map{
				"success": false,
				"message": "Payment not found",
			})
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	payment.Status = input.Status
	if saveErr := storage.DB.Save(&payment).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Payment status updated successfully",
		"data":    payment,
	})
}

func PaymentWebhook(ctx iris.Context) {
	var event PaymentWebhookInput
	err := ctx.ReadJSON(&event)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Unknown event types and unknown transactions are dropped; the
	// webhook always acknowledges receipt.
	switch event.Type {
	case "transaction.confirmed":
		storage.DB.Model(&models.Payment{}).
			Where("payment_intent_id = ?", event.Data.TransactionID).
			Update("status", models.PaymentStatusCompleted)
	case "transaction.failed":
		storage.DB.Model(&models.Payment{}).
			Where("payment_intent_id = ?", event.Data.TransactionID).
			Update("status", models.PaymentStatusFailed)
	}

	ctx.JSON(iris.Map{"received": true})
}

func GetPaymentByID(ctx iris.Context) {
	id, idErr := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if idErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Invalid payment id.", ctx)
		return
	}

	var payment models.Payment
	if err := storage.DB.First(&payment, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.StatusCode(http.StatusNotFound)
			ctx.JSON(iris.Map{
				"success": false,
				"message": "Payment not found",
			})
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    payment,
	})
}

func GetUserPayments(ctx iris.Context) {
	userID, idErr := strconv.ParseUint(ctx.Params().Get("userId"), 10, 32)
	if idErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Invalid user id.", ctx)
		return
	}

	var payments []models.Payment
	if err := storage.DB.Where("user_id = ?", uint(userID)).Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    payments,
	})
}

type CreatePaymentIntentInput struct {
	PropertyID uint    `json:"propertyId" validate:"required"`
	UserID     uint    `json:"userId" validate:"required"`
	Amount     float64 `json:"amount" validate:"required"`
	Currency   string  `json:"currency" validate:"required"`
}

type ProcessPaymentInput struct {
	TransactionID string `json:"transactionId" validate:"required"`
	Status        string `json:"status" validate:"required"`
}

// No validate tags: the webhook acknowledges every event it receives,
// recognized or not.
type PaymentWebhookInput struct {
	Type string `json:"type"`
	Data struct {
		TransactionID string `json:"transactionId"`
	} `json:"data"`
}
