package main

import (
	"filae/src/boot"
	"filae/src/config"
	"filae/src/controllers"
	"filae/src/lib"
	"filae/src/middlewares"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var partySizeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	size, ok := fl.Field().Interface().(int)
	if !ok {
		return false
	}
	return size >= 1 && size <= config.MAX_PARTY_SIZE
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("partysize", partySizeValidatorFunc)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err == nil && atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		}).
		POST("/register", func(ctx *gin.Context) {
			uid, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("[AuthRegister] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"id": uid})
		})
	return guest
}

func protectedRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.Use(middlewares.AuthMiddleware)
	queueHandlers(apiv1)
	establishmentHandlers(apiv1)
	notificationHandlers(apiv1)
	return apiv1
}

func main() {
	registerValidators()

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	corscfg := cors.DefaultConfig()
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		corscfg.AllowAllOrigins = true
	} else {
		corscfg.AllowOrigins = strings.Split(origins, ",")
	}
	corscfg.AllowHeaders = append(corscfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corscfg))

	guestAuthRoutes(router)
	protectedRoutes(router)

	boot.InitDb()
	boot.InitScheduler()
	defer boot.StopScheduler()
	lib.TestRedis()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server error: %s\n", err.Error())
	}
}
