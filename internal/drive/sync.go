package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ksr-21/smartstock/internal/snapshot"
	"github.com/ksr-21/smartstock/internal/storage"
)

// FileSource lists and downloads files from a shared folder.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// Syncer copies workbook snapshots that retailers drop into a Drive folder
// into the snapshot archive.
type Syncer struct {
	source FileSource
	store  storage.ObjectStorage
}

func NewSyncer(source FileSource, store storage.ObjectStorage) *Syncer {
	return &Syncer{source: source, store: store}
}

// SyncResult lists archive keys written and Drive file names skipped.
type SyncResult struct {
	Archived []string
	Skipped  []string
}

// Sync archives every readable .xlsx file in folderID for owner, keyed by the
// file's modification day. Files are handled oldest first, so the newest file
// of a day wins. Unreadable workbooks are skipped, not fatal.
func (s *Syncer) Sync(ctx context.Context, folderID, owner string) (SyncResult, error) {
	var result SyncResult

	files, err := s.source.ListFiles(ctx, folderID)
	if err != nil {
		return result, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModifiedTime < files[j].ModifiedTime
	})

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if strings.ToLower(filepath.Ext(f.Name)) != ".xlsx" {
			continue
		}

		key, err := s.archive(ctx, f, owner)
		if err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("skipping drive workbook")
			result.Skipped = append(result.Skipped, f.Name)
			continue
		}
		result.Archived = append(result.Archived, key)
	}

	log.Info().
		Str("owner_id", owner).
		Int("archived", len(result.Archived)).
		Int("skipped", len(result.Skipped)).
		Msg("drive sync finished")

	return result, nil
}

func (s *Syncer) archive(ctx context.Context, f File, owner string) (string, error) {
	modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return "", fmt.Errorf("invalid modified time %q: %w", f.ModifiedTime, err)
	}

	var buf bytes.Buffer
	if err := s.source.DownloadFile(ctx, f.ID, &buf); err != nil {
		return "", err
	}

	if _, err := snapshot.Read(bytes.NewReader(buf.Bytes())); err != nil {
		return "", err
	}

	key := snapshot.ArchiveKey(owner, modified.UTC())
	if err := s.store.PutObject(ctx, key, buf.Bytes()); err != nil {
		return "", err
	}
	return key, nil
}
