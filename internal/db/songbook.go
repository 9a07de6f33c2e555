package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

var ErrSongNotFound = errors.New("song not found")

type Song struct {
	ID               string
	Category         string
	Title            string
	Link             string
	Artist           sql.NullString
	ArtistName       sql.NullString
	AdditionalChords sql.NullString
	ChordPro         sql.NullString
}

type SongbookType struct {
	db    *sql.DB
	songs []Song
	mu    sync.RWMutex
}

var Songbook = &SongbookType{}

// NewSongbook creates a songbook cache backed by database
func NewSongbook(database *sql.DB) *SongbookType {
	return &SongbookType{db: database}
}

const selectSongs = `SELECT id, category, title, artist, artist_name, link, additional_chords, chordpro FROM songbook`

// Reload reads the whole songbook table into memory
func (s *SongbookType) Reload() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, selectSongs)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Category, &song.Title, &song.Artist, &song.ArtistName, &song.Link, &song.AdditionalChords, &song.ChordPro); err != nil {
			log.Printf("error scanning row: %v", err)
			continue
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during rows iteration: %w", err)
	}

	s.setSongs(songs)
	return nil
}

func (s *SongbookType) setSongs(songs []Song) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs = songs
}

func (s *SongbookType) FindSongByID(id string) (Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, song := range s.songs {
		if song.ID == id {
			return song, true
		}
	}
	return Song{}, false
}

// SearchSongs returns songs whose title or artist contains query, ignoring case
func (s *SongbookType) SearchSongs(query string) []Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []Song
	for _, song := range s.songs {
		haystack := strings.ToLower(strings.Join([]string{song.Title, song.Artist.String, song.ArtistName.String}, " "))
		if strings.Contains(haystack, query) {
			results = append(results, song)
		}
	}
	return results
}

func (s *SongbookType) FormatSongName(song Song) string {
	var parts []string
	if song.ArtistName.Valid {
		parts = append(parts, song.ArtistName.String+" ")
	}
	if song.Artist.Valid {
		parts = append(parts, song.Artist.String+" - ")
	}
	parts = append(parts, song.Title)

	return strings.TrimSpace(strings.Join(parts, ""))
}

// SongChordPro reads the stored ChordPro text of a song
func (s *SongbookType) SongChordPro(ctx context.Context, songID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var text sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT chordpro FROM songbook WHERE id = ?`, songID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("song %s: %w", songID, ErrSongNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read chordpro for song %s: %w", songID, err)
	}
	return text.String, nil
}

// UpdateSongChordPro stores new ChordPro text for a song
func (s *SongbookType) UpdateSongChordPro(ctx context.Context, songID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `UPDATE songbook SET chordpro = ? WHERE id = ?`, text, songID)
	if err != nil {
		return fmt.Errorf("failed to update chordpro: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("song %s: %w", songID, ErrSongNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.songs {
		if s.songs[i].ID == songID {
			s.songs[i].ChordPro = sql.NullString{String: text, Valid: true}
			break
		}
	}
	return nil
}
