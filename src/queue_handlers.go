package main

import (
	"filae/src/common"
	"filae/src/types"
	"filae/src/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func queueHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/queues/join", func(ctx *gin.Context) {
			var body types.JoinQueueRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			entry, err := common.JoinQueue(ctx.Request.Context(), body.EstablishmentID, userId, body.PartySize, body.Notes)
			if err != nil {
				log.Printf("Could not join queue: %s\n", err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": utils.QueueEntryResponse(entry)})
		}).
		GET("/queues/my-queues", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			entries, err := common.GetUserQueues(ctx.Request.Context(), userId)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.QueueEntryResponses(entries), "count": len(entries)})
		}).
		GET("/queues/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			entry, err := common.GetQueueEntry(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.QueueEntryResponse(entry)})
		}).
		GET("/queues/establishment/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			entries, err := common.GetEstablishmentQueue(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.QueueEntryResponses(entries), "count": len(entries)})
		}).
		PUT("/queues/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			entry, err := common.CancelQueue(ctx.Request.Context(), params.ID, userId)
			if err != nil {
				log.Printf("Could not cancel queue entry %d: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.QueueEntryResponse(entry)})
		}).
		POST("/queues/establishment/:id/call-next", func(ctx *gin.Context) {
			if ctx.GetString("role") != string(types.ROLE_MERCHANT) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "merchant role required"})
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			entry, err := common.CallNext(ctx.Request.Context(), params.ID)
			if err != nil {
				log.Printf("Could not call next at establishment %d: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.QueueEntryResponse(entry)})
		}).
		PUT("/queues/:id/finish", func(ctx *gin.Context) {
			if ctx.GetString("role") != string(types.ROLE_MERCHANT) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "merchant role required"})
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			entry, err := common.FinishQueue(ctx.Request.Context(), params.ID)
			if err != nil {
				log.Printf("Could not finish queue entry %d: %s\n", params.ID, err.Error())
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.QueueEntryResponse(entry)})
		})
	return g
}
