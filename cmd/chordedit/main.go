package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/chordedit/internal/bot"
	"github.com/sukalov/chordedit/internal/bot/cms"
	"github.com/sukalov/chordedit/internal/db"
	"github.com/sukalov/chordedit/internal/logger"
	"github.com/sukalov/chordedit/internal/lyrics"
	"github.com/sukalov/chordedit/internal/redis"
	"github.com/sukalov/chordedit/internal/utils"
)

func main() {
	env, err := utils.LoadEnv([]string{"BOT_TOKEN", "ADMIN_USERNAMES"})
	if err != nil {
		log.Fatalf("required env missing: %v", err)
	}

	admins := utils.SplitList(env["ADMIN_USERNAMES"])
	if len(admins) == 0 {
		log.Fatal("ADMIN_USERNAMES is empty")
	}

	if err := db.Init(); err != nil {
		log.Fatalf("failed to init songbook: %v", err)
	}
	defer db.Close()

	drafts, err := redis.NewDBManager()
	if err != nil {
		log.Fatalf("failed to init draft store: %v", err)
	}
	defer drafts.Close()

	editorBot, err := bot.New("editor", env["BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if err := logger.Init(editorBot); err != nil {
		log.Printf("logging to stdout only: %v", err)
	}

	cms.SetupHandlers(editorBot, db.Songbook, drafts, lyrics.NewService(nil), admins)
	logger.Success("chord editor started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("chord editor stopping")
	editorBot.Stop()
}
