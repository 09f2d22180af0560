package provider

import (
	"context"
	"fmt"

	"github.com/remd-cli/remd/internal/domain"
	"github.com/remd-cli/remd/internal/fetcher"
	"github.com/remd-cli/remd/internal/utils"
)

// fetchFunc is the single-file fetch primitive shared fetch loop drives.
type fetchFunc func(ctx context.Context, info domain.RepoInfo, entry *domain.FileEntry) (string, error)

// fetchAll drives content retrieval across the file list, one file at a
// time in input order. For every file it emits exactly one progress
// snapshot, whether the file was skipped, fetched, or failed.
//
// Binary files, and files over maxFileSize when the limit is non-zero,
// are counted as skipped without fetching. Fetch failures are retried
// once; a second failure is recorded in Errors and the loop continues.
// Rate-limit errors abort the loop immediately and are returned, never
// recorded per file.
func fetchAll(
	ctx context.Context,
	info domain.RepoInfo,
	files []*domain.FileEntry,
	maxFileSize int64,
	fetch fetchFunc,
	retrier *fetcher.Retrier,
	log *utils.Logger,
	fn domain.ProgressFunc,
) (domain.FetchProgress, error) {
	progress := domain.FetchProgress{
		TotalFiles: len(files),
	}

	emit := func() {
		if fn != nil {
			fn(progress)
		}
	}

	for _, entry := range files {
		if err := ctx.Err(); err != nil {
			return progress, err
		}

		progress.CurrentFile = entry.Path

		if entry.IsBinary || (maxFileSize > 0 && entry.Size > maxFileSize) {
			progress.SkippedBinary++
			progress.FetchedFiles++
			emit()
			continue
		}

		content, err := fetcher.RetryWithValue(ctx, retrier, func() (string, error) {
			return fetch(ctx, info, entry)
		})
		if err != nil {
			if domain.IsRateLimit(err) {
				return progress, err
			}

			log.Warn().
				Str("path", entry.Path).
				Err(err).
				Msg("Failed to fetch file")
			progress.Errors = append(progress.Errors, fmt.Sprintf("%s: %s", entry.Path, err.Error()))
		} else {
			entry.SetContent(content)
		}

		progress.FetchedFiles++
		emit()
	}

	return progress, nil
}
