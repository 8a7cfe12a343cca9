// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"lms/internal/model"
	"lms/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("NewDB() open failed: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("NewDB() migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func StrPtr(s string) *string { return &s }

// CreateUser stores a user with the given password and role.
func CreateUser(t *testing.T, db *gorm.DB, email, password, role string) model.User {
	t.Helper()
	u := model.User{Email: email, Name: email, Role: role}
	if err := u.SetPassword(password); err != nil {
		t.Fatalf("CreateUser() hash failed: %v", err)
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return u
}

// CreateCourse stores a course owned by userID.
func CreateCourse(t *testing.T, db *gorm.DB, userID, title string) model.Course {
	t.Helper()
	c := model.Course{UserID: userID, Title: title}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

// CreateChapter stores a chapter as-is, including its publish state.
func CreateChapter(t *testing.T, db *gorm.DB, ch model.Chapter) model.Chapter {
	t.Helper()
	if err := db.Create(&ch).Error; err != nil {
		t.Fatalf("CreateChapter() failed: %v", err)
	}
	return ch
}
