package boot

import (
	"filae/src/common"
	"filae/src/db"
	"filae/src/lib"
	"filae/src/models"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Establishment{},
		&models.QueueEntry{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	j, err := sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			common.CleanupReadNotifications(30 * 24 * time.Hour)
		}),
	)
	if err != nil {
		log.Printf("Error scheduling notification cleanup: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled notification cleanup job: %s\n", j.ID().String())
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}
