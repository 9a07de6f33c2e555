package redis

import (
	"encoding/json"
	"fmt"
	"time"
)

// draftTTL keeps unsaved edits around for a week
const draftTTL = 7 * 24 * time.Hour

// Draft is an unsaved ChordPro text of a song being edited in a chat
type Draft struct {
	SongID  string    `json:"song_id"`
	ChatID  int64     `json:"chat_id"`
	Text    string    `json:"text"`
	SavedAt time.Time `json:"saved_at"`
}

func draftKey(chatID int64, songID string) string {
	return fmt.Sprintf("draft:%d:%s", chatID, songID)
}

func encodeDraft(d Draft) ([]byte, error) {
	return json.Marshal(d)
}

func decodeDraft(data []byte) (Draft, error) {
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}
