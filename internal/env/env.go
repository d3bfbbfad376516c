package env

import (
	"os"
)

const (
	ListenAddr          = "LISTEN_ADDR"
	WebUrl              = "WEB_URL"
	MembershipBackend   = "MEMBERSHIP_BACKEND"
	ChatRedisURL        = "CHAT_REDIS_URL"
	ChatRedisPass       = "CHAT_REDIS_PASS"
	RoomTable           = "ROOM_TABLE"
	SignalNotifyOffline = "SIGNAL_NOTIFY_OFFLINE"
	AWSRegion           = "AWS_REGION"
	AWSID               = "AWS_ID"
	AWSSecret           = "AWS_SECRET"
	AWSToken            = "AWS_TOKEN"
	DynamoDBEndpoint    = "DYNAMODB_ENDPOINT"
)

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
