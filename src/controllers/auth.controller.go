package controllers

import (
	"filae/src/db"
	"filae/src/models"
	"filae/src/types"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func generateJWT(user *models.User) (string, error) {
	claims := types.Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func AuthLogin(ctx *gin.Context) (string, int, error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return "", http.StatusBadRequest, err
	}
	dbi := db.GetDb()
	var user models.User
	err := dbi.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", http.StatusNotFound, errors.New("no account for this email")
		}
		return "", http.StatusInternalServerError, err
	}
	token, err := generateJWT(&user)
	if err != nil {
		log.Printf("[auth] error signing token: %s\n", err.Error())
		return "", http.StatusInternalServerError, err
	}
	return token, http.StatusOK, nil
}

func AuthRegister(ctx *gin.Context) (uint, int, error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return 0, http.StatusBadRequest, err
	}
	role := body.Role
	if role == "" {
		role = string(types.ROLE_CUSTOMER)
	}
	user := models.User{
		Name:  body.Name,
		Email: body.Email,
		Role:  role,
	}
	dbi := db.GetDb()
	if err := dbi.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, http.StatusConflict, errors.New("email already registered")
		}
		return 0, http.StatusInternalServerError, err
	}
	log.Printf("[auth] registered user %d (%s)\n", user.ID, user.Email)
	return user.ID, http.StatusCreated, nil
}
