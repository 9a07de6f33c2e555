package db

import (
	"context"
	"database/sql"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordedit/internal/utils/e"
)

type Edit struct {
	ID       int64
	SongID   string
	ChatID   int64
	Username sql.NullString
	Chords   int
	Length   int
	SavedAt  time.Time
}

// NewEdit describes a save of songID made from the given telegram user
func NewEdit(from *tgbotapi.User, chatID int64, songID string, chords, length int) Edit {
	edit := Edit{
		SongID:  songID,
		ChatID:  chatID,
		Chords:  chords,
		Length:  length,
		SavedAt: time.Now(),
	}
	if from != nil {
		edit.Username = sql.NullString{String: from.UserName, Valid: from.UserName != ""}
	}
	return edit
}

// RecordEdit appends a row to the song_edits audit table
func RecordEdit(ctx context.Context, edit Edit) (err error) {
	defer e.WrapIfErr("failed to record edit", &err)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	insertQuery := `
		INSERT INTO song_edits (
			song_id,
			chat_id,
			username,
			chords,
			length,
			saved_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = Database.ExecContext(ctx, insertQuery,
		edit.SongID,
		edit.ChatID,
		edit.Username,
		edit.Chords,
		edit.Length,
		edit.SavedAt,
	)
	if err != nil {
		return err
	}

	log.Printf("song edit recorded: song: %s, username: %s",
		edit.SongID,
		edit.Username.String,
	)
	return nil
}
