package db

import (
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	inner, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: inner}), &gorm.Config{
		ConnPool: inner,
	})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestNewDB(t *testing.T) {
	gormDB, mock := NewMockDB()
	NewDB(gormDB)

	assert.Equal(t, gormDB, GetDb())

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	var count int64
	err := GetDb().Table("queue_entries").Count(&count).Error
	assert.Nil(t, err)
	assert.EqualValues(t, 3, count)
	assert.Nil(t, mock.ExpectationsWereMet())
}
