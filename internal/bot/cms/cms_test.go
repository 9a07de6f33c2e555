package cms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordedit/internal/db"
	"github.com/sukalov/chordedit/internal/lyrics"
	"github.com/sukalov/chordedit/internal/redis"
)

type fakeSongs struct {
	songs []db.Song
	texts map[string]string
}

func (f *fakeSongs) FindSongByID(id string) (db.Song, bool) {
	for _, s := range f.songs {
		if s.ID == id {
			return s, true
		}
	}
	return db.Song{}, false
}

func (f *fakeSongs) SearchSongs(query string) []db.Song {
	var out []db.Song
	for _, s := range f.songs {
		if strings.Contains(strings.ToLower(s.Title), strings.ToLower(query)) {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeSongs) FormatSongName(song db.Song) string { return song.Title }

func (f *fakeSongs) SongChordPro(_ context.Context, id string) (string, error) {
	text, ok := f.texts[id]
	if !ok {
		return "", db.ErrSongNotFound
	}
	return text, nil
}

func (f *fakeSongs) UpdateSongChordPro(_ context.Context, id, text string) error {
	f.texts[id] = text
	return nil
}

type fakeDrafts struct {
	drafts  map[string]redis.Draft
	saveErr error
}

func key(chatID int64, songID string) string { return fmt.Sprintf("%d/%s", chatID, songID) }

func (f *fakeDrafts) SaveDraft(_ context.Context, chatID int64, songID, text string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.drafts[key(chatID, songID)] = redis.Draft{SongID: songID, ChatID: chatID, Text: text, SavedAt: time.Now()}
	return nil
}

func (f *fakeDrafts) GetDraft(_ context.Context, chatID int64, songID string) (redis.Draft, bool, error) {
	d, ok := f.drafts[key(chatID, songID)]
	return d, ok, nil
}

func (f *fakeDrafts) DeleteDraft(_ context.Context, chatID int64, songID string) error {
	delete(f.drafts, key(chatID, songID))
	return nil
}

const chatID = int64(100)

func newTestHandlers() (*EditorHandlers, *fakeSongs, *fakeDrafts, *[]db.Edit) {
	songs := &fakeSongs{
		songs: []db.Song{{ID: "1", Title: "Amazing Grace"}, {ID: "2", Title: "Кукушка", Artist: sql.NullString{String: "Цой", Valid: true}}},
		texts: map[string]string{"1": "{verse}\nAmazing grace", "2": ""},
	}
	drafts := &fakeDrafts{drafts: map[string]redis.Draft{}}
	h := NewEditorHandlers([]string{"sukalov"}, songs, drafts)
	var edits []db.Edit
	h.recordEdit = func(_ context.Context, e db.Edit) error {
		edits = append(edits, e)
		return nil
	}
	return h, songs, drafts, &edits
}

func TestEditFlow(t *testing.T) {
	ctx := context.Background()
	h, songs, drafts, edits := newTestHandlers()

	out, err := h.openSong(ctx, chatID, "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0: {verse}\n1: (0)Amazing grace") {
		t.Fatalf("unexpected open reply: %q", out)
	}

	steps := []struct {
		command string
		args    string
		want    string
	}{
		{"split", "1 0 8 C", "[C]grace"},
		{"chord", "1 1 G 7", "[G7]grace"},
		{"append", "1 D - F#", "[D/F#]"},
		{"unchord", "1 1", "(0)Amazing grace (1)[D/F#]"},
		{"addline", "0", "1: (0)\n2: (0)Amazing grace"},
		{"rmline", "1", "1: (0)Amazing grace"},
	}
	for _, step := range steps {
		out, err := h.edit(ctx, chatID, step.command, step.args)
		if err != nil {
			t.Fatalf("%s %s: %v", step.command, step.args, err)
		}
		if !strings.Contains(out, step.want) {
			t.Fatalf("%s %s: reply %q does not contain %q", step.command, step.args, out, step.want)
		}
	}

	if got := drafts.drafts[key(chatID, "1")].Text; got != "{verse}\nAmazing grace[D/F#]" {
		t.Fatalf("unexpected draft: %q", got)
	}

	out, err = h.save(ctx, chatID, &tgbotapi.User{UserName: "sukalov"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "аккордов: 1") {
		t.Fatalf("unexpected save reply: %q", out)
	}
	if songs.texts["1"] != "{verse}\nAmazing grace[D/F#]" {
		t.Fatalf("song not saved: %q", songs.texts["1"])
	}
	if _, ok := drafts.drafts[key(chatID, "1")]; ok {
		t.Fatalf("draft should be deleted after save")
	}
	if len(*edits) != 1 || (*edits)[0].SongID != "1" || (*edits)[0].Chords != 1 {
		t.Fatalf("unexpected edits: %#v", *edits)
	}
}

func TestOpenPrefersDraft(t *testing.T) {
	ctx := context.Background()
	h, _, drafts, _ := newTestHandlers()
	drafts.drafts[key(chatID, "1")] = redis.Draft{Text: "[Am]draft text", SavedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}

	out, err := h.openSong(ctx, chatID, "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "черновик от 12:00:00") || !strings.Contains(out, "(0)[Am]draft text") {
		t.Fatalf("unexpected reply: %q", out)
	}
}

func TestEditErrors(t *testing.T) {
	ctx := context.Background()
	h, _, _, _ := newTestHandlers()

	if out, _ := h.edit(ctx, chatID, "chord", "0 0 C"); !strings.Contains(out, "/open") {
		t.Fatalf("expected hint to open a song, got %q", out)
	}
	if out, _ := h.openSong(ctx, chatID, "404"); out != "песня не найдена" {
		t.Fatalf("unexpected reply: %q", out)
	}

	if _, err := h.openSong(ctx, chatID, "1"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		command string
		args    string
		want    string
	}{
		{"chord", "0 0 C", "нет такой строки"},
		{"chord", "9 0 C", "нет такой строки"},
		{"split", "1 x 0 C", "не число"},
		{"split", "1 0", "нужно 3 числа"},
		{"chord", "1 0", "какой аккорд"},
		{"dance", "", "неизвестная команда"},
	}
	for _, tt := range tests {
		out, err := h.edit(ctx, chatID, tt.command, tt.args)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.command, tt.args, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Fatalf("%s %s: reply %q does not contain %q", tt.command, tt.args, out, tt.want)
		}
	}
}

func TestDraftFailureIsReported(t *testing.T) {
	ctx := context.Background()
	h, _, drafts, _ := newTestHandlers()
	if _, err := h.openSong(ctx, chatID, "1"); err != nil {
		t.Fatal(err)
	}
	drafts.saveErr = errors.New("redis down")

	if _, err := h.edit(ctx, chatID, "append", "1 C"); err == nil {
		t.Fatalf("expected draft error")
	}
	if got := h.show(chatID, "text"); got != "{verse}\nAmazing grace[C]" {
		t.Fatalf("edit should still apply: %q", got)
	}
}

func TestReplaceText(t *testing.T) {
	ctx := context.Background()
	h, _, drafts, _ := newTestHandlers()

	if out, _ := h.replaceText(ctx, chatID, "[C]x"); !strings.Contains(out, "/find") {
		t.Fatalf("unexpected reply: %q", out)
	}

	if _, err := h.openSong(ctx, chatID, "2"); err != nil {
		t.Fatal(err)
	}
	out, err := h.replaceText(ctx, chatID, "{chorus}\n[Am]Песен ещё не написанных")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0: {chorus}\n1: (0)[Am]Песен ещё не написанных" {
		t.Fatalf("unexpected reply: %q", out)
	}
	if drafts.drafts[key(chatID, "2")].Text != "{chorus}\n[Am]Песен ещё не написанных" {
		t.Fatalf("draft not saved")
	}

	// sending back the text the editor just produced changes nothing
	if _, err := h.edit(ctx, chatID, "append", "1 E"); err != nil {
		t.Fatal(err)
	}
	if out, _ := h.replaceText(ctx, chatID, h.show(chatID, "text")); out != "текст не изменился" {
		t.Fatalf("unexpected reply: %q", out)
	}
}

func TestFindAndClose(t *testing.T) {
	h, _, _, _ := newTestHandlers()

	if out := h.find("grace"); out != "найденные песни:\n1 — Amazing Grace" {
		t.Fatalf("unexpected find reply: %q", out)
	}
	if out := h.find("zzz"); out != "ничего не найдено" {
		t.Fatalf("unexpected find reply: %q", out)
	}

	if out := h.closeSong(chatID); out != "нет открытой песни" {
		t.Fatalf("unexpected reply: %q", out)
	}
	if _, err := h.openSong(context.Background(), chatID, "1"); err != nil {
		t.Fatal(err)
	}
	h.closeSong(chatID)
	if _, ok := h.current(chatID); ok {
		t.Fatalf("song should be closed")
	}
}

func TestSearchKeyboard(t *testing.T) {
	songs := &fakeSongs{}
	var results []db.Song
	for i := 0; i < 12; i++ {
		results = append(results, db.Song{ID: fmt.Sprint(i), Title: fmt.Sprintf("song %d", i)})
	}
	kb := searchKeyboard(songs, results)
	if len(kb.InlineKeyboard) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(kb.InlineKeyboard))
	}
	if data := kb.InlineKeyboard[3][0].CallbackData; data == nil || *data != "edit_song:3" {
		t.Fatalf("unexpected callback data: %v", data)
	}
}

type fakeImporter struct{ text string }

func (f fakeImporter) Import(_ context.Context, url string) (*lyrics.Song, error) {
	return &lyrics.Song{URL: url, Text: f.text, Chords: 1, Source: "amdm.ru"}, nil
}

func TestImportSong(t *testing.T) {
	ctx := context.Background()
	h, _, drafts, _ := newTestHandlers()
	h.importer = fakeImporter{text: "{comment: Куплет}\n[Am]Кукушка"}

	if out, _ := h.importSong(ctx, chatID, "https://amdm.ru/akkordi/kino/1/kukushka/"); !strings.Contains(out, "/open") {
		t.Fatalf("expected hint to open a song, got %q", out)
	}
	if _, err := h.openSong(ctx, chatID, "2"); err != nil {
		t.Fatal(err)
	}
	if out, _ := h.importSong(ctx, chatID, "https://example.com/song"); !strings.Contains(out, "amdm.ru") {
		t.Fatalf("unexpected reply: %q", out)
	}

	out, err := h.importSong(ctx, chatID, "https://amdm.ru/akkordi/kino/1/kukushka/")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0: {comment: Куплет}\n1: (0)[Am]Кукушка" {
		t.Fatalf("unexpected reply: %q", out)
	}
	if drafts.drafts[key(chatID, "2")].Text != "{comment: Куплет}\n[Am]Кукушка" {
		t.Fatalf("draft not saved")
	}
}

func TestReplaceTextAndEditsKeepDraftInStep(t *testing.T) {
	ctx := context.Background()
	h, _, drafts, _ := newTestHandlers()
	if _, err := h.openSong(ctx, chatID, "1"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = h.replaceText(ctx, chatID, fmt.Sprintf("[Am]version %d", i))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = h.edit(ctx, chatID, "append", "0 C")
		}()
	}
	wg.Wait()

	if got, want := drafts.drafts[key(chatID, "1")].Text, h.show(chatID, "text"); got != want {
		t.Fatalf("draft %q does not match document %q", got, want)
	}
}
