package logger

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/sukalov/chordedit/internal/utils"
	"github.com/sukalov/chordedit/internal/utils/e"
)

var (
	ChannelID int64
	once      sync.Once
	mu        sync.RWMutex
	botClient BotClient
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Init routes log lines to the LOG_CHANNEL_ID channel through client.
// Until it succeeds, log lines go to the standard logger.
func Init(client BotClient) error {
	var initErr error
	once.Do(func() {
		env, err := utils.LoadEnv([]string{"LOG_CHANNEL_ID"})
		if err != nil {
			initErr = fmt.Errorf("failed to load LOG_CHANNEL_ID: %w", err)
			return
		}

		id, err := strconv.ParseInt(env["LOG_CHANNEL_ID"], 10, 64)
		if err != nil {
			initErr = fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
			return
		}

		mu.Lock()
		ChannelID = id
		botClient = client
		mu.Unlock()
	})

	return initErr
}

func Info(message string) {
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	sendLog("🔍 DEBUG", message)
}

func Success(message string) {
	sendLog("✅ SUCCESS", message)
}

func sendLog(prefix, message string) {
	mu.RLock()
	client, channel := botClient, ChannelID
	mu.RUnlock()

	if client == nil {
		log.Printf("%s %s", prefix, message)
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channel, logMessage); err != nil {
			fmt.Printf("Failed to send log to channel: %v\nLog was: %s\n", err, logMessage)
		}
	}()
}

// LogWithErr logs message as info, or as an error when err is set, and
// returns err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	msg := fmt.Sprintf("%s\nError: %v", message, err)
	Error(msg)

	return e.Wrap(message, err)
}
