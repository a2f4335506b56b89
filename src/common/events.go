package common

import (
	"filae/src/db"
	"filae/src/lib"
	"filae/src/models"
	"filae/src/types"
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// EmitQueueEvent fans a lifecycle event out to its consumers: a notification
// row for the customer, a publish on the user and establishment redis
// channels, and a best-effort mail when the customer is called. The state
// transition has already committed when this runs; emission failures are
// logged and never unwind it.
func EmitQueueEvent(ctx context.Context, eventType types.QueueEventType, entry *models.QueueEntry) {
	establishmentName := fmt.Sprintf("establishment %d", entry.EstablishmentID)
	establishment, err := GetEstablishment(db.GetDb().WithContext(ctx), entry.EstablishmentID)
	if err != nil {
		log.Printf("[events] could not resolve establishment %d: %s\n", entry.EstablishmentID, err.Error())
	} else {
		establishmentName = establishment.Name
	}

	title, body := eventMessage(eventType, establishmentName, entry)
	notification := models.Notification{
		UserID:    entry.UserID,
		Title:     title,
		Body:      body,
		EventType: string(eventType),
		ReferenceBody: &types.JSONB{
			"entry_id":         entry.ID,
			"ticket_code":      entry.TicketCode,
			"establishment_id": entry.EstablishmentID,
		},
	}
	if err := db.GetDb().WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("[events] failed to store notification for user %d: %s\n", entry.UserID, err.Error())
	}

	payload := types.QueueEventPayload{
		Type:            eventType,
		EntryID:         entry.ID,
		TicketCode:      entry.TicketCode,
		EstablishmentID: entry.EstablishmentID,
		UserID:          entry.UserID,
		Position:        entry.Position,
		TotalInQueue:    entry.TotalInQueue,
		EstimatedWait:   entry.EstimatedWait,
	}
	data, err := json.Marshal(&payload)
	if err != nil {
		log.Printf("[events] failed to serialize payload: %s\n", err.Error())
		return
	}
	if rd := lib.GetRedisClient(); rd != nil {
		userChannel := fmt.Sprintf("user-%d", entry.UserID)
		establishmentChannel := fmt.Sprintf("establishment-%d", entry.EstablishmentID)
		if err := rd.Publish(ctx, userChannel, data).Err(); err != nil {
			log.Printf("[events] publish to %s failed: %s\n", userChannel, err.Error())
		}
		if err := rd.Publish(ctx, establishmentChannel, data).Err(); err != nil {
			log.Printf("[events] publish to %s failed: %s\n", establishmentChannel, err.Error())
		}
	}

	if eventType == types.QUEUE_EVENT_CALLED {
		if rd := lib.GetRedisClient(); rd != nil {
			key := fmt.Sprintf("now-serving-%d", entry.EstablishmentID)
			if err := rd.Set(ctx, key, entry.TicketCode, 0).Err(); err != nil {
				log.Printf("[events] failed to update %s: %s\n", key, err.Error())
			}
		}
		go notifyCalledByMail(context.Background(), entry, title, body)
	}
}

func eventMessage(eventType types.QueueEventType, establishmentName string, entry *models.QueueEntry) (string, string) {
	switch eventType {
	case types.QUEUE_EVENT_JOINED:
		return fmt.Sprintf("You're in line at %s", establishmentName),
			fmt.Sprintf("Ticket %s. You're number %d of %d, estimated wait %d minutes.",
				entry.TicketCode, entry.Position, entry.TotalInQueue, entry.EstimatedWait)
	case types.QUEUE_EVENT_CALLED:
		return fmt.Sprintf("It's your turn at %s!", establishmentName),
			fmt.Sprintf("Ticket %s has been called. Please head to the counter.", entry.TicketCode)
	case types.QUEUE_EVENT_CANCELLED:
		return fmt.Sprintf("You left the line at %s", establishmentName),
			fmt.Sprintf("Ticket %s was cancelled.", entry.TicketCode)
	case types.QUEUE_EVENT_FINISHED:
		return fmt.Sprintf("Thanks for visiting %s", establishmentName),
			fmt.Sprintf("Ticket %s is done. See you next time!", entry.TicketCode)
	}
	return string(eventType), entry.TicketCode
}

func notifyCalledByMail(ctx context.Context, entry *models.QueueEntry, subject string, body string) {
	var user models.User
	err := db.GetDb().WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", entry.UserID).
		First(&user).
		Error
	if err != nil || user.Email == "" {
		return
	}
	if err := lib.SendMail(&lib.SendMailInput{
		To:      []string{user.Email},
		Subject: subject,
		Body:    body,
	}); err != nil {
		log.Printf("[events] mail to %s failed: %s\n", user.Email, err.Error())
	}
}
