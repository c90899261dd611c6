package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Jossyboydgenius/Real-Estate-Booking/models"
	"github.com/Jossyboydgenius/Real-Estate-Booking/storage"
	"github.com/Jossyboydgenius/Real-Estate-Booking/utils"
)

func CreateUser(ctx iris.Context) {
	var input CreateUserInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		ctx.JSON(iris.Map{"message": "User already exists"})
		return
	}

	user = models.User{
		Name:             input.Name,
		Email:            strings.ToLower(input.Email),
		Image:            input.Image,
		BookedVisits:     datatypes.JSON("[]"),
		FavResidenciesID: datatypes.JSON("[]"),
	}

	if createErr := storage.DB.Create(&user).Error; createErr != nil {
		// A concurrent register can slip past the existence check; the
		// unique index on email is the source of truth.
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			ctx.JSON(iris.Map{"message": "User already exists"})
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{
		"message": "User created successfully",
		"user":    &user,
	})
}

func BookVisit(ctx iris.Context) {
	id64, idErr := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if idErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Invalid residency id.", ctx)
		return
	}
	residencyID := uint(id64)

	var input BookVisitInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	_, booked, alterErr := alterUserColumn(input.Email, bookedVisitsColumn, func(u *models.User) (datatypes.JSON, bool) {
		visits := decodeBookedVisits(u.BookedVisits)
		if slices.ContainsFunc(visits, func(v models.BookedVisit) bool { return v.ID == residencyID }) {
			return nil, false
		}
		visits = append(visits, models.BookedVisit{ID: residencyID, Date: input.Date})
		next, _ := json.Marshal(visits)
		return next, true
	})

	if alterErr != nil {
		if errors.Is(alterErr, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if !booked {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Already booked"})
		return
	}

	ctx.JSON(iris.Map{"message": "Booked successfully"})
}

func GetAllBookings(ctx iris.Context) {
	var input UserEmailInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"bookedVisits": decodeBookedVisits(user.BookedVisits)})
}

func CancelBooking(ctx iris.Context) {
	id64, idErr := strconv.ParseUint(ctx.Params().Get("id"), 10, 32)
	if idErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Invalid residency id.", ctx)
		return
	}
	residencyID := uint(id64)

	var input UserEmailInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	_, cancelled, alterErr := alterUserColumn(input.Email, bookedVisitsColumn, func(u *models.User) (datatypes.JSON, bool) {
		visits := decodeBookedVisits(u.BookedVisits)
		index := slices.IndexFunc(visits, func(v models.BookedVisit) bool { return v.ID == residencyID })
		if index == -1 {
			return nil, false
		}
		visits = append(visits[:index], visits[index+1:]...)
		next, _ := json.Marshal(visits)
		return next, true
	})

	if alterErr != nil {
		if errors.Is(alterErr, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if !cancelled {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Not booked"})
		return
	}

	ctx.JSON(iris.Map{"message": "Cancelled successfully"})
}

func ToFav(ctx iris.Context) {
	rid64, idErr := strconv.ParseUint(ctx.Params().Get("rid"), 10, 32)
	if idErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation error", "Invalid residency id.", ctx)
		return
	}
	residencyID := uint(rid64)

	var input UserEmailInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	added := false
	user, _, alterErr := alterUserColumn(input.Email, favResidenciesColumn, func(u *models.User) (datatypes.JSON, bool) {
		favs := decodeFavResidencies(u.FavResidenciesID)
		if slices.Contains(favs, residencyID) {
			added = false
			kept := favs[:0]
			for _, fav := range favs {
				if fav != residencyID {
					kept = append(kept, fav)
				}
			}
			favs = kept
		} else {
			added = true
			favs = append(favs, residencyID)
		}
		next, _ := json.Marshal(favs)
		return next, true
	})

	if alterErr != nil {
		if errors.Is(alterErr, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	message := "Removed from fav"
	if added {
		message = "Added to fav"
	}
	ctx.JSON(iris.Map{
		"message": message,
		"user":    user,
	})
}

func GetAllFav(ctx iris.Context) {
	var input UserEmailInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"favResidenciesID": decodeFavResidencies(user.FavResidenciesID)})
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	exists = userExistsQuery.RowsAffected > 0

	if exists == true {
		return true, nil
	}

	return false, nil
}

func decodeBookedVisits(raw datatypes.JSON) []models.BookedVisit {
	visits := []models.BookedVisit{}
	if raw != nil {
		json.Unmarshal(raw, &visits)
	}
	return visits
}

func decodeFavResidencies(raw datatypes.JSON) []uint {
	favs := []uint{}
	if raw != nil {
		json.Unmarshal(raw, &favs)
	}
	return favs
}

// userColumn names one of the user's JSON columns together with its
// struct accessors, so the conditional-update loop below can guard the
// write with the previously read value.
type userColumn struct {
	name string
	get  func(u *models.User) datatypes.JSON
	set  func(u *models.User, v datatypes.JSON)
}

var bookedVisitsColumn = userColumn{
	name: "booked_visits",
	get:  func(u *models.User) datatypes.JSON { return u.BookedVisits },
	set:  func(u *models.User, v datatypes.JSON) { u.BookedVisits = v },
}

var favResidenciesColumn = userColumn{
	name: "fav_residencies_id",
	get:  func(u *models.User) datatypes.JSON { return u.FavResidenciesID },
	set:  func(u *models.User, v datatypes.JSON) { u.FavResidenciesID = v },
}

var errConcurrentUpdate = errors.New("user row changed concurrently, retries exhausted")

const alterAttempts = 3

// alterUserColumn runs a read-modify-write on one of the user's JSON
// columns as a conditional update: the write only lands if the column
// still holds the value that was read, otherwise the loop re-reads and
// reapplies mutate. mutate returns ok=false to reject without writing
// (e.g. visit already booked).
func alterUserColumn(email string, col userColumn, mutate func(u *models.User) (datatypes.JSON, bool)) (*models.User, bool, error) {
	email = strings.ToLower(email)

	for attempt := 0; attempt < alterAttempts; attempt++ {
		var user models.User
		if err := storage.DB.Where("email = ?", email).First(&user).Error; err != nil {
			return nil, false, err
		}

		prev := col.get(&user)
		next, ok := mutate(&user)
		if !ok {
			return &user, false, nil
		}

		res := storage.DB.Model(&models.User{}).
			Where("email = ? AND "+col.name+" = ?", email, prev).
			Update(col.name, datatypes.JSON(next))
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected > 0 {
			col.set(&user, next)
			return &user, true, nil
		}
		// lost the race, re-read and try again
	}

	return nil, false, errConcurrentUpdate
}

type CreateUserInput struct {
	Name  string `json:"name" validate:"max=256"`
	Email string `json:"email" validate:"required,max=256,email"`
	Image string `json:"image" validate:"max=2048"`
}

type UserEmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type BookVisitInput struct {
	Email string `json:"email" validate:"required,email"`
	Date  string `json:"date" validate:"required"`
}
