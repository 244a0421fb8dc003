package draftpicks

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	"draftflow/lib/scrapers/wikidraft"
	"draftflow/services/draftpicks/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("services/draftpicks")

// Fetcher retrieves a year's picks from the source page.
// wikidraft.Client satisfies it.
type Fetcher interface {
	FetchYear(ctx context.Context, year int) ([]wikidraft.Pick, error)
}

// Service hands out a year's draft picks, backed by a local sqlite cache
// so repeat runs for the same year skip the network.
type Service struct {
	db      *sql.DB
	qry     *db.Queries
	fetcher Fetcher
}

func NewService(database *sql.DB, fetcher Fetcher) Service {
	return Service{
		db:      database,
		qry:     db.New(database),
		fetcher: fetcher,
	}
}

// OpenDB opens (creating if necessary) the pick cache database.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	database.SetMaxOpenConns(1)
	if _, err := database.Exec("PRAGMA journal_mode=WAL"); err != nil {
		database.Close()
		return nil, err
	}
	if _, err := database.Exec(db.Schema); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Picks returns the pick sequence for a year in pick-number order. Cached
// rows win unless refresh is set; a fresh scrape replaces the year's rows
// in one transaction.
func (s Service) Picks(ctx context.Context, year int, refresh bool) ([]wikidraft.Pick, error) {
	ctx, span := tracer.Start(ctx, "Picks")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year), attribute.Bool("refresh", refresh))

	if !refresh {
		cached, err := s.qry.GetPicksForYear(ctx, int64(year))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cache read failed")
			return nil, err
		}
		if len(cached) > 0 {
			slog.DebugContext(ctx, "pick cache hit", "year", year, "picks", len(cached))
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return fromRows(cached), nil
		}
	}

	picks, err := s.fetcher.FetchYear(ctx, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	if err := s.store(ctx, year, picks); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cache write failed")
		return nil, err
	}

	slog.InfoContext(ctx, "scraped draft picks", "year", year, "picks", len(picks))
	return picks, nil
}

func (s Service) store(ctx context.Context, year int, picks []wikidraft.Pick) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	if err := txqry.DeletePicksForYear(ctx, int64(year)); err != nil {
		return err
	}
	for _, p := range picks {
		err := txqry.CreatePick(ctx, db.CreatePickParams{
			Year:       int64(year),
			PickNumber: int64(p.Number),
			NflTeam:    p.Team,
			PlayerName: p.Player,
			College:    p.College,
		})
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func fromRows(rows []db.DraftPick) []wikidraft.Pick {
	out := make([]wikidraft.Pick, 0, len(rows))
	for _, r := range rows {
		out = append(out, wikidraft.Pick{
			Number:  int(r.PickNumber),
			Team:    r.NflTeam,
			Player:  r.PlayerName,
			College: r.College,
		})
	}
	return out
}
