package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's active login session.
func (r *CacheKeyStruct) UserSessionKey(userID int64) string {
	return fmt.Sprintf("login:%d", userID)
}

// UserNotificationChannel returns the Redis PubSub channel for a user's
// live notification stream.
func (r *CacheKeyStruct) UserNotificationChannel(userID int64) string {
	return fmt.Sprintf("user:%d:notifications", userID)
}

// CourseGroupSnapshotKey returns the cache key for a course's group listing
// snapshot (invalidated on any group or enrollment mutation).
func (r *CacheKeyStruct) CourseGroupSnapshotKey(courseID int64) string {
	return fmt.Sprintf("course:%d:groups", courseID)
}

var CacheKey = NewCacheKeyStruct()
