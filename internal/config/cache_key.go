package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// QuizCatalogKey returns the cache key for the student quiz catalog
func (r *CacheKeyStruct) QuizCatalogKey(subject, grade, category string) string {
	return fmt.Sprintf("catalog:subject:%s:grade:%s:category:%s", subject, grade, category)
}

// QuizPayloadKey returns the cache key for a quiz's full payload
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// StudentAnswersKey returns the cache key for a student's in-flight answers
func (r *CacheKeyStruct) StudentAnswersKey(quizID string, userID int) string {
	return fmt.Sprintf("student:%d:quiz:%s:answers", userID, quizID)
}

// StudentHistoryKey returns the cache key for a student's result history
func (r *CacheKeyStruct) StudentHistoryKey(userID int) string {
	return fmt.Sprintf("student:%d:history", userID)
}

// LeaderboardKey returns the sorted-set key for the XP leaderboard
func (r *CacheKeyStruct) LeaderboardKey() string {
	return "leaderboard:xp"
}

// NotificationListKey returns the cache key for the announcement list
func (r *CacheKeyStruct) NotificationListKey() string {
	return "notifications:latest"
}

// NotificationChannel returns the Redis PubSub channel for announcements
func (r *CacheKeyStruct) NotificationChannel() string {
	return "notifications:stream"
}

var CacheKey = NewCacheKeyStruct()
