package cms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordedit/internal/bot"
	"github.com/sukalov/chordedit/internal/db"
	"github.com/sukalov/chordedit/internal/logger"
	"github.com/sukalov/chordedit/internal/lyrics"
	"github.com/sukalov/chordedit/internal/redis"
	"github.com/sukalov/chordedit/internal/session"
	"github.com/sukalov/chordedit/internal/utils"
)

// SongStore is the part of the songbook the editor needs
type SongStore interface {
	FindSongByID(id string) (db.Song, bool)
	SearchSongs(query string) []db.Song
	FormatSongName(song db.Song) string
	SongChordPro(ctx context.Context, songID string) (string, error)
	UpdateSongChordPro(ctx context.Context, songID, text string) error
}

// DraftStore keeps unsaved edits between bot restarts
type DraftStore interface {
	SaveDraft(ctx context.Context, chatID int64, songID, text string) error
	GetDraft(ctx context.Context, chatID int64, songID string) (redis.Draft, bool, error)
	DeleteDraft(ctx context.Context, chatID int64, songID string) error
}

// Importer converts a chords page to ChordPro
type Importer interface {
	Import(ctx context.Context, url string) (*lyrics.Song, error)
}

// openedSong is the song a chat is currently editing
type openedSong struct {
	id      string
	name    string
	session *session.Session

	// held across RequestEdit and Commit, and across Load and the draft
	// save, so commands from one chat don't interleave
	editMu sync.Mutex
}

type EditorHandlers struct {
	admins     map[string]bool
	songs      SongStore
	drafts     DraftStore
	importer   Importer
	recordEdit func(ctx context.Context, edit db.Edit) error

	mu   sync.Mutex
	open map[int64]*openedSong
}

func NewEditorHandlers(adminUsernames []string, songs SongStore, drafts DraftStore) *EditorHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &EditorHandlers{
		admins:     admins,
		songs:      songs,
		drafts:     drafts,
		recordEdit: db.RecordEdit,
		open:       make(map[int64]*openedSong),
	}
}

const helpText = `редактор аккордов.

/find <название> — найти песню
/open <id> — открыть песню
/show — показать строки и токены
/text — текст в формате chordpro
/split <строка> <токен> <позиция> <аккорд> — вставить аккорд внутрь слова
/chord <строка> <токен> <аккорд> — заменить аккорд
/unchord <строка> <токен> — убрать аккорд
/append <строка> <аккорд> — аккорд в конец строки
/import <ссылка> — взять аккорды с amdm.ru
/addline <после> — пустая строка (-1 — в начало)
/rmline <строка> — удалить строку
/chords — аккорды песни
/notes — из чего собирать аккорды
/save — сохранить в сонгбук
/close — закрыть (черновик останется)

можно просто прислать текст песни в chordpro — он заменит открытый.`

func (h *EditorHandlers) current(chatID int64) (*openedSong, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	song, ok := h.open[chatID]
	return song, ok
}

func (h *EditorHandlers) find(query string) string {
	results := h.songs.SearchSongs(query)
	if len(results) == 0 {
		return "ничего не найдено"
	}

	var b strings.Builder
	b.WriteString("найденные песни:\n")
	for i, song := range results {
		if i >= 10 {
			fmt.Fprintf(&b, "(показаны первые 10 из %d)", len(results))
			break
		}
		fmt.Fprintf(&b, "%s — %s\n", song.ID, h.songs.FormatSongName(song))
	}
	return strings.TrimRight(b.String(), "\n")
}

// openSong starts editing songID in chatID, from the draft when there is one
func (h *EditorHandlers) openSong(ctx context.Context, chatID int64, songID string) (string, error) {
	song, found := h.songs.FindSongByID(songID)
	if !found {
		return "песня не найдена", nil
	}

	note := ""
	text := ""
	draft, hasDraft, err := h.drafts.GetDraft(ctx, chatID, songID)
	if err != nil {
		logger.Error(fmt.Sprintf("openSong: failed to read draft\nChat: %d\nSong: %s\nError: %v", chatID, songID, err))
	}
	if hasDraft {
		text = draft.Text
		note = fmt.Sprintf("\n(черновик от %s)", utils.ConvertToMoscowTime(draft.SavedAt))
	} else {
		text, err = h.songs.SongChordPro(ctx, songID)
		if err != nil {
			return "", fmt.Errorf("failed to load song %s: %w", songID, err)
		}
	}

	s := session.New(h.draftPublisher(chatID, songID))
	s.Load(text)

	name := h.songs.FormatSongName(song)
	h.mu.Lock()
	h.open[chatID] = &openedSong{id: songID, name: name, session: s}
	h.mu.Unlock()

	return fmt.Sprintf("редактируем песню:\n%s%s\n\n%s", name, note, renderDocument(s.Document())), nil
}

func (h *EditorHandlers) draftPublisher(chatID int64, songID string) session.Publisher {
	return session.PublisherFunc(func(ctx context.Context, text string) error {
		return h.drafts.SaveDraft(ctx, chatID, songID, text)
	})
}

// edit runs one edit command against the open song and renders the result
func (h *EditorHandlers) edit(ctx context.Context, chatID int64, command, args string) (string, error) {
	song, ok := h.current(chatID)
	if !ok {
		return "сначала откройте песню: /open <id>", nil
	}
	s := song.session
	song.editMu.Lock()
	defer song.editMu.Unlock()

	var err error
	switch command {
	case "split":
		nums, rest, perr := parseArgs(args, 3)
		if perr != nil {
			return perr.Error(), nil
		}
		symbol, cerr := chordArg(rest)
		if cerr != nil {
			return cerr.Error(), nil
		}
		err = h.commit(ctx, s, session.InsertBySplit{Line: nums[0], Token: nums[1], Offset: nums[2]}, symbol)
	case "chord":
		nums, rest, perr := parseArgs(args, 2)
		if perr != nil {
			return perr.Error(), nil
		}
		symbol, cerr := chordArg(rest)
		if cerr != nil {
			return cerr.Error(), nil
		}
		err = h.commit(ctx, s, session.EditExisting{Line: nums[0], Token: nums[1]}, symbol)
	case "unchord":
		nums, _, perr := parseArgs(args, 2)
		if perr != nil {
			return perr.Error(), nil
		}
		if err = s.RequestEdit(session.EditExisting{Line: nums[0], Token: nums[1]}); err == nil {
			_, err = s.CommitRemoval(ctx)
		}
	case "append":
		nums, rest, perr := parseArgs(args, 1)
		if perr != nil {
			return perr.Error(), nil
		}
		symbol, cerr := chordArg(rest)
		if cerr != nil {
			return cerr.Error(), nil
		}
		err = h.commit(ctx, s, session.AppendAtEnd{Line: nums[0]}, symbol)
	case "addline":
		nums, _, perr := parseArgs(args, 1)
		if perr != nil {
			return perr.Error(), nil
		}
		_, err = s.InsertLine(ctx, nums[0])
	case "rmline":
		nums, _, perr := parseArgs(args, 1)
		if perr != nil {
			return perr.Error(), nil
		}
		_, err = s.RemoveLine(ctx, nums[0])
	default:
		return fmt.Sprintf("неизвестная команда %s", command), nil
	}

	if errors.Is(err, session.ErrIndexOutOfRange) {
		return "нет такой строки или токена. посмотрите /show", nil
	}
	if err != nil {
		// the document is already updated when only the draft failed to save
		logger.Error(fmt.Sprintf("edit: %s failed\nChat: %d\nSong: %s\nError: %v", command, chatID, song.id, err))
		return "", err
	}
	return renderDocument(s.Document()), nil
}

func (h *EditorHandlers) commit(ctx context.Context, s *session.Session, target session.Target, symbol string) error {
	if err := s.RequestEdit(target); err != nil {
		return err
	}
	_, err := s.Commit(ctx, symbol)
	return err
}

// replaceText loads text sent as a plain message into the open song
func (h *EditorHandlers) replaceText(ctx context.Context, chatID int64, text string) (string, error) {
	song, ok := h.current(chatID)
	if !ok {
		return "ничего не понятно. чтобы редактировать песню, сначала найдите её: /find", nil
	}
	song.editMu.Lock()
	defer song.editMu.Unlock()

	if !song.session.Load(text) {
		return "текст не изменился", nil
	}
	if err := h.drafts.SaveDraft(ctx, chatID, song.id, song.session.Text()); err != nil {
		return "", fmt.Errorf("failed to save draft: %w", err)
	}
	return renderDocument(song.session.Document()), nil
}

// importSong replaces the open song with a converted chords page
func (h *EditorHandlers) importSong(ctx context.Context, chatID int64, url string) (string, error) {
	if _, ok := h.current(chatID); !ok {
		return "сначала откройте песню: /open <id>", nil
	}
	if h.importer == nil || !lyrics.Supported(url) {
		return "умею импортировать только с amdm.ru", nil
	}

	song, err := h.importer.Import(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to import %s: %w", url, err)
	}
	logger.Info(fmt.Sprintf("imported %s (%s, %d chords)", url, humanize.Bytes(uint64(len(song.Text))), song.Chords))
	return h.replaceText(ctx, chatID, song.Text)
}

// save writes the open song to the songbook and drops its draft
func (h *EditorHandlers) save(ctx context.Context, chatID int64, from *tgbotapi.User) (string, error) {
	song, ok := h.current(chatID)
	if !ok {
		return "нет открытой песни", nil
	}

	text := song.session.Text()
	if err := h.songs.UpdateSongChordPro(ctx, song.id, text); err != nil {
		return "", err
	}
	if err := h.drafts.DeleteDraft(ctx, chatID, song.id); err != nil {
		logger.Error(fmt.Sprintf("save: failed to delete draft\nChat: %d\nSong: %s\nError: %v", chatID, song.id, err))
	}

	chords := len(song.session.Document().Chords())
	if h.recordEdit != nil {
		if err := h.recordEdit(ctx, db.NewEdit(from, chatID, song.id, chords, len(text))); err != nil {
			logger.Error(fmt.Sprintf("save: failed to record edit\nSong: %s\nError: %v", song.id, err))
		}
	}

	logger.Success(fmt.Sprintf("song %s saved (%s, %d chords)", song.id, humanize.Bytes(uint64(len(text))), chords))
	return fmt.Sprintf("сохранено: %s\n%s, аккордов: %d", song.name, humanize.Bytes(uint64(len(text))), chords), nil
}

func (h *EditorHandlers) closeSong(chatID int64) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.open[chatID]; !ok {
		return "нет открытой песни"
	}
	delete(h.open, chatID)
	return "песня закрыта. черновик сохранён, /open вернёт к нему"
}

func (h *EditorHandlers) show(chatID int64, what string) string {
	song, ok := h.current(chatID)
	if !ok {
		return "нет открытой песни"
	}
	switch what {
	case "text":
		return song.session.Text()
	case "chords":
		return renderChords(song.session.Document())
	default:
		return fmt.Sprintf("%s\n\n%s", song.name, renderDocument(song.session.Document()))
	}
}

func (h *EditorHandlers) guard(handler func(b *bot.Bot, update tgbotapi.Update) error) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		message := update.Message
		if message == nil || message.From == nil {
			return nil
		}
		if !h.admins[message.From.UserName] {
			return b.SendMessage(message.Chat.ID, "вы не админ")
		}
		return handler(b, update)
	}
}

func reply(b *bot.Bot, chatID int64, text string, err error) error {
	if err != nil {
		if sendErr := b.SendMessage(chatID, "произошла ошибка, попробуйте ещё раз"); sendErr != nil {
			return sendErr
		}
		return err
	}
	if err := b.SendLongMessage(chatID, text); err != nil {
		// the edit is already applied, tell the user how to see it
		_ = b.SendMessage(chatID, "не получилось отправить ответ, посмотрите /show")
		return err
	}
	return nil
}

func SetupHandlers(editorBot *bot.Bot, songs SongStore, drafts DraftStore, importer Importer, adminUsernames []string) {
	h := NewEditorHandlers(adminUsernames, songs, drafts)
	h.importer = importer

	commands := map[string]bot.HandlerFunc{
		"start": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			return b.SendMessage(update.Message.Chat.ID, helpText)
		}),
		"find": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			query := update.Message.CommandArguments()
			if strings.TrimSpace(query) == "" {
				return b.SendMessage(update.Message.Chat.ID, "напишите название песни или артиста: /find <название>")
			}
			results := h.songs.SearchSongs(query)
			if len(results) == 0 {
				return b.SendMessage(update.Message.Chat.ID, "ничего не найдено")
			}
			return b.SendMessageWithButtons(update.Message.Chat.ID, h.find(query), searchKeyboard(h.songs, results))
		}),
		"open": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			chatID := update.Message.Chat.ID
			text, err := h.openSong(context.Background(), chatID, strings.TrimSpace(update.Message.CommandArguments()))
			return reply(b, chatID, text, err)
		}),
		"show": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			return b.SendLongMessage(update.Message.Chat.ID, h.show(update.Message.Chat.ID, "lines"))
		}),
		"text": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			return b.SendLongMessage(update.Message.Chat.ID, h.show(update.Message.Chat.ID, "text"))
		}),
		"chords": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			return b.SendLongMessage(update.Message.Chat.ID, h.show(update.Message.Chat.ID, "chords"))
		}),
		"notes": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			return b.SendMessage(update.Message.Chat.ID, renderVocabulary())
		}),
		"save": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			chatID := update.Message.Chat.ID
			text, err := h.save(context.Background(), chatID, update.Message.From)
			return reply(b, chatID, text, err)
		}),
		"import": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			chatID := update.Message.Chat.ID
			text, err := h.importSong(context.Background(), chatID, strings.TrimSpace(update.Message.CommandArguments()))
			return reply(b, chatID, text, err)
		}),
		"close": h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			return b.SendMessage(update.Message.Chat.ID, h.closeSong(update.Message.Chat.ID))
		}),
	}
	commands["help"] = commands["start"]

	for _, name := range []string{"split", "chord", "unchord", "append", "addline", "rmline"} {
		command := name
		commands[command] = h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			chatID := update.Message.Chat.ID
			text, err := h.edit(context.Background(), chatID, command, update.Message.CommandArguments())
			return reply(b, chatID, text, err)
		})
	}

	messages := []bot.HandlerFunc{
		h.guard(func(b *bot.Bot, update tgbotapi.Update) error {
			if update.Message.Text == "" || update.Message.IsCommand() {
				return nil
			}
			chatID := update.Message.Chat.ID
			text, err := h.replaceText(context.Background(), chatID, update.Message.Text)
			return reply(b, chatID, text, err)
		}),
	}

	callbacks := map[string]bot.HandlerFunc{
		"edit_song": h.openCallback,
	}

	go editorBot.Start(bot.Routes{Commands: commands, Messages: messages, Callbacks: callbacks})
}

func searchKeyboard(songs SongStore, results []db.Song) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range results {
		// Limit the number of results to prevent huge keyboards
		if len(rows) >= 10 {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(songs.FormatSongName(song), "edit_song:"+song.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (h *EditorHandlers) openCallback(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	if query == nil || query.Message == nil || query.From == nil {
		return nil
	}
	if !h.admins[query.From.UserName] {
		return b.AnswerCallback(query.ID, "вы не админ")
	}
	if err := b.AnswerCallback(query.ID, ""); err != nil {
		logger.Error(fmt.Sprintf("openCallback: failed to answer callback\nError: %v", err))
	}

	songID := strings.TrimPrefix(query.Data, "edit_song:")
	chatID := query.Message.Chat.ID
	text, err := h.openSong(context.Background(), chatID, songID)
	return reply(b, chatID, text, err)
}
