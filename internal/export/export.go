// Package export serializes a guild's full scoring state to a
// zstd-compressed JSON dump for backups and offline analysis.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"primatebot/internal/storage"
	"primatebot/internal/version"
)

// GuildDump is the on-disk shape of a guild export.
type GuildDump struct {
	Version    string                   `json:"version"`
	ExportedAt time.Time                `json:"exported_at"`
	GuildID    int64                    `json:"guild_id"`
	Profiles   []storage.Profile        `json:"profiles"`
	Analyses   []storage.AnalysisRecord `json:"analyses"`
	Duels      []storage.DuelRecord     `json:"duels"`
}

// WriteGuild streams a compressed dump of one guild to w.
func WriteGuild(w io.Writer, store *storage.Store, guildID int64) error {
	profiles, err := store.ListProfiles(guildID)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	analyses, err := store.ListAnalysisHistory(guildID)
	if err != nil {
		return fmt.Errorf("failed to load analysis history: %w", err)
	}
	duels, err := store.ListDuelHistory(guildID)
	if err != nil {
		return fmt.Errorf("failed to load duel history: %w", err)
	}

	dump := GuildDump{
		Version:    version.Version,
		ExportedAt: time.Now().UTC(),
		GuildID:    guildID,
		Profiles:   profiles,
		Analyses:   analyses,
		Duels:      duels,
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode dump: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush compressed dump: %w", err)
	}
	return nil
}

// ReadGuild decodes a dump previously written by WriteGuild.
func ReadGuild(r io.Reader) (*GuildDump, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var dump GuildDump
	if err := json.NewDecoder(zr).Decode(&dump); err != nil {
		return nil, fmt.Errorf("failed to decode dump: %w", err)
	}
	return &dump, nil
}
