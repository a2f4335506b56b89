package main

import (
	"filae/src/common"
	"filae/src/db"
	"filae/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func establishmentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/establishments", func(ctx *gin.Context) {
			city := ctx.Query("city")
			category := ctx.Query("category")
			establishments, err := common.ListEstablishments(ctx.Request.Context(), city, category)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": establishments, "count": len(establishments)})
		}).
		GET("/establishments/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			establishment, err := common.GetEstablishment(db.GetDb().WithContext(ctx.Request.Context()), params.ID)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": establishment})
		}).
		POST("/establishments", func(ctx *gin.Context) {
			if ctx.GetString("role") != string(types.ROLE_MERCHANT) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "merchant role required"})
				return
			}
			var body types.CreateEstablishmentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			merchantId := ctx.GetUint("id")
			id, err := common.CreateEstablishment(ctx.Request.Context(), &body, merchantId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PUT("/establishments/:id/accepting", func(ctx *gin.Context) {
			if ctx.GetString("role") != string(types.ROLE_MERCHANT) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "merchant role required"})
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateAcceptingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			merchantId := ctx.GetUint("id")
			if err := common.SetAccepting(ctx.Request.Context(), params.ID, merchantId, *body.Accepting); err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
