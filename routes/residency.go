package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"github.com/Jossyboydgenius/Real-Estate-Booking/models"
	"github.com/Jossyboydgenius/Real-Estate-Booking/storage"
	"github.com/Jossyboydgenius/Real-Estate-Booking/utils"
)

func CreateResidency(ctx iris.Context) {
	// The client sends the listing wrapped in a "data" envelope.
	var input CreateResidencyEnvelope
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var owner models.User
	ownerExists, ownerErr := getAndHandleUserExists(&owner, input.Data.UserEmail)
	if ownerErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !ownerExists {
		utils.CreateNotFound(ctx)
		return
	}

	facilities := input.Data.Facilities
	if facilities == nil {
		facilities = map[string]interface{}{}
	}
	facilitiesJSON, _ := json.Marshal(facilities)

	residency := models.Residency{
		Title:       input.Data.Title,
		Description: input.Data.Description,
		Price:       input.Data.Price,
		Address:     input.Data.Address,
		Country:     input.Data.Country,
		City:        input.Data.City,
		Facilities:  facilitiesJSON,
		Image:       input.Data.Image,
		OwnerID:     owner.ID,
	}

	if createErr := storage.DB.Create(&residency).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			ctx.StatusCode(http.StatusConflict)
			ctx.JSON(iris.Map{"message": "A residency with address already exists"})
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.InvalidateResidencyList()

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{
		"message":   "Residency created successfully",
		"residency": &residency,
	})
}

func GetAllResidencies(ctx iris.Context) {
	if cached := storage.GetCachedResidencyList(); cached != "" {
		ctx.ContentType("application/json")
		ctx.WriteString(cached)
		return
	}

	var residencies []models.Residency
	if err := storage.DB.Order("created_at DESC").Find(&residencies).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	payload, marshalErr := json.Marshal(wrapResidencies(residencies))
	if marshalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.SetCachedResidencyList(string(payload))

	ctx.ContentType("application/json")
	ctx.Write(payload)
}

func GetResidency(ctx iris.Context) {
	id, idErr := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if idErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Invalid residency id.", ctx)
		return
	}

	var residency models.Residency
	if err := storage.DB.Preload("Owner").First(&residency, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&residency)
}

// wrapResidencies forces pointer receivers so the custom MarshalJSON runs.
func wrapResidencies(residencies []models.Residency) []*models.Residency {
	out := make([]*models.Residency, 0, len(residencies))
	for i := range residencies {
		out = append(out, &residencies[i])
	}
	return out
}

type CreateResidencyEnvelope struct {
	Data CreateResidencyInput `json:"data" validate:"required"`
}

type CreateResidencyInput struct {
	Title       string                 `json:"title" validate:"required,max=256"`
	Description string                 `json:"description" validate:"required"`
	Price       float64                `json:"price" validate:"required,gt=0"`
	Address     string                 `json:"address" validate:"required,max=512"`
	Country     string                 `json:"country" validate:"required"`
	City        string                 `json:"city" validate:"required"`
	Facilities  map[string]interface{} `json:"facilities"`
	Image       string                 `json:"image" validate:"max=2048"`
	UserEmail   string                 `json:"userEmail" validate:"required,email"`
}
