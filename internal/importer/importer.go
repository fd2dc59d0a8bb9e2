// Package importer loads the seed CSV files into the database.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services/users"
)

var (
	ErrMissingColumn    = errors.New("missing column")
	ErrUnknownReference = errors.New("references a row that was not imported")
	ErrDuplicateRow     = errors.New("duplicates an earlier row")
)

// Copier writes rows into table in one transaction. Row values follow the
// column order of the table's import layout.
type Copier interface {
	Copy(ctx context.Context, table string, rows [][]any) (int64, error)
}

type rowParser func(rec record, st *state) ([]any, error)

type source struct {
	file  string
	table string
	parse rowParser
	// keys lists the values of a row that must be unique within the file,
	// besides its id.
	keys func(row []any) []string
}

// sources are listed in dependency order: every file only references rows
// of files before it.
var sources = []source{
	{"category.csv", "categories", parseTaxon, slugKey},
	{"users.csv", "users", parseUser, func(row []any) []string {
		return []string{fmt.Sprintf("username %v", row[1]), fmt.Sprintf("email %v", row[2])}
	}},
	{"genre.csv", "genres", parseTaxon, slugKey},
	{"titles.csv", "titles", parseTitle, nil},
	{"genre_title.csv", "genre_titles", parseGenreTitle, func(row []any) []string {
		return []string{fmt.Sprintf("title %v genre %v", row[1], row[2])}
	}},
	{"review.csv", "reviews", parseReview, func(row []any) []string {
		return []string{fmt.Sprintf("title %v author %v", row[1], row[3])}
	}},
	{"comments.csv", "comments", parseComment, nil},
}

func slugKey(row []any) []string {
	return []string{fmt.Sprintf("slug %v", row[2])}
}

// state carries what earlier files of the same run imported, so rows
// pointing at skipped or failed parents are dropped before the copy.
type state struct {
	now      time.Time
	imported map[string]map[int64]struct{}
}

func newState(now time.Time) *state {
	return &state{now: now, imported: make(map[string]map[int64]struct{})}
}

func (st *state) ref(table string, id int64) error {
	if _, ok := st.imported[table][id]; !ok {
		return fmt.Errorf("%w: %s %d", ErrUnknownReference, table, id)
	}
	return nil
}

func (st *state) record(table string, rows [][]any) {
	ids, ok := st.imported[table]
	if !ok {
		ids = make(map[int64]struct{}, len(rows))
		st.imported[table] = ids
	}
	for _, row := range rows {
		ids[row[0].(int64)] = struct{}{}
	}
}

// FileResult reports how one file went.
type FileResult struct {
	File     string
	Imported int64
	Skipped  int
	Err      error
}

type Importer struct {
	log    *slog.Logger
	copier Copier
	now    func() time.Time
}

func New(log *slog.Logger, copier Copier, now func() time.Time) *Importer {
	if now == nil {
		now = time.Now
	}
	return &Importer{log: log, copier: copier, now: now}
}

// Run imports every known file found in dir. A file that fails is reported
// and the import moves on to the next one.
func (i *Importer) Run(ctx context.Context, dir string) []FileResult {
	const op = "importer.Importer.Run"
	log := i.log.With("op", op, "dir", dir)
	results := make([]FileResult, 0, len(sources))
	st := newState(i.now())
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			results = append(results, FileResult{File: src.file, Err: err})
			continue
		}
		res := i.importFile(ctx, log, filepath.Join(dir, src.file), src, st)
		if res.Err != nil {
			log.Error("Error while importing file", "file", src.file, "errMsg", res.Err.Error())
		} else {
			log.Info("file imported", "file", src.file, "rows", res.Imported, "skipped", res.Skipped)
		}
		results = append(results, res)
	}
	return results
}

func (i *Importer) importFile(ctx context.Context, log *slog.Logger, path string, src source, st *state) FileResult {
	res := FileResult{File: src.file}
	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()
	rows, skipped, err := parseRows(log.With("file", src.file), f, src, st)
	res.Skipped = skipped
	if err != nil {
		res.Err = err
		return res
	}
	if len(rows) == 0 {
		return res
	}
	res.Imported, res.Err = i.copier.Copy(ctx, src.table, rows)
	if res.Err == nil {
		st.record(src.table, rows)
	}
	return res
}

func parseRows(log *slog.Logger, r io.Reader, src source, st *state) (rows [][]any, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	seen := make(map[string]struct{})
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		line, _ := reader.FieldPos(0)
		row, err := src.parse(record{index: index, values: values}, st)
		if err == nil {
			err = checkUnique(seen, src, row)
		}
		if err != nil {
			log.Warn("skipping invalid row", "line", line, "reason", err.Error())
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// checkUnique rejects a row whose id or unique values were already taken
// by an earlier row of the file.
func checkUnique(seen map[string]struct{}, src source, row []any) error {
	keys := []string{fmt.Sprintf("id %v", row[0])}
	if src.keys != nil {
		keys = append(keys, src.keys(row)...)
	}
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateRow, key)
		}
	}
	for _, key := range keys {
		seen[key] = struct{}{}
	}
	return nil
}

type record struct {
	index  map[string]int
	values []string
}

func (r record) str(column string) (string, error) {
	i, ok := r.index[column]
	if !ok || i >= len(r.values) {
		return "", fmt.Errorf("%w %q", ErrMissingColumn, column)
	}
	return r.values[i], nil
}

func (r record) id(column string) (int64, error) {
	s, err := r.str(column)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", column, s)
	}
	return id, nil
}

// optionalID returns nil for an empty value.
func (r record) optionalID(column string) (*int64, error) {
	s, err := r.str(column)
	if err != nil || strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := r.id(column)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r record) pubDate(now time.Time) (time.Time, error) {
	s, err := r.str("pub_date")
	if err != nil {
		return time.Time{}, err
	}
	pubDate, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pub_date %q", s)
	}
	if !models.ValidPubDate(pubDate, now) {
		return time.Time{}, fmt.Errorf("pub_date %s is in the future", s)
	}
	return pubDate, nil
}

func parseTaxon(rec record, _ *state) ([]any, error) {
	id, err := rec.id("id")
	if err != nil {
		return nil, err
	}
	name, err := rec.str("name")
	if err != nil {
		return nil, err
	}
	slug, err := rec.str("slug")
	if err != nil {
		return nil, err
	}
	if name == "" || len(name) > 256 {
		return nil, fmt.Errorf("invalid name %q", name)
	}
	if !models.ValidSlug(slug) || len(slug) > 50 {
		return nil, fmt.Errorf("invalid slug %q", slug)
	}
	return []any{id, name, slug}, nil
}

func parseUser(rec record, _ *state) ([]any, error) {
	id, err := rec.id("id")
	if err != nil {
		return nil, err
	}
	username, err := rec.str("username")
	if err != nil {
		return nil, err
	}
	if err := users.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("%w: %q", err, username)
	}
	email, err := rec.str("email")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	role := models.RoleUser
	if s, _ := rec.str("role"); s != "" {
		if role, err = models.ParseRole(s); err != nil {
			return nil, err
		}
	}
	// optional columns
	bio, _ := rec.str("bio")
	firstName, _ := rec.str("first_name")
	lastName, _ := rec.str("last_name")
	return []any{id, username, email, string(role), bio, firstName, lastName, true}, nil
}

func parseTitle(rec record, st *state) ([]any, error) {
	id, err := rec.id("id")
	if err != nil {
		return nil, err
	}
	name, err := rec.str("name")
	if err != nil {
		return nil, err
	}
	if name == "" || len(name) > 256 {
		return nil, fmt.Errorf("invalid name %q", name)
	}
	s, err := rec.str("year")
	if err != nil {
		return nil, err
	}
	year, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid year %q", s)
	}
	if !models.ValidYear(int32(year), st.now) {
		return nil, fmt.Errorf("year %d is out of range", year)
	}
	categoryID, err := rec.optionalID("category")
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		if err := st.ref("categories", *categoryID); err != nil {
			return nil, err
		}
	}
	return []any{id, name, int32(year), categoryID}, nil
}

func parseGenreTitle(rec record, st *state) ([]any, error) {
	id, err := rec.id("id")
	if err != nil {
		return nil, err
	}
	titleID, err := rec.id("title_id")
	if err != nil {
		return nil, err
	}
	genreID, err := rec.id("genre_id")
	if err != nil {
		return nil, err
	}
	if err := st.ref("titles", titleID); err != nil {
		return nil, err
	}
	if err := st.ref("genres", genreID); err != nil {
		return nil, err
	}
	return []any{id, titleID, genreID}, nil
}

func parseReview(rec record, st *state) ([]any, error) {
	id, err := rec.id("id")
	if err != nil {
		return nil, err
	}
	titleID, err := rec.id("title_id")
	if err != nil {
		return nil, err
	}
	text, err := rec.str("text")
	if err != nil {
		return nil, err
	}
	authorID, err := rec.id("author")
	if err != nil {
		return nil, err
	}
	s, err := rec.str("score")
	if err != nil {
		return nil, err
	}
	score, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || !models.ValidScore(int32(score)) {
		return nil, fmt.Errorf("invalid score %q", s)
	}
	pubDate, err := rec.pubDate(st.now)
	if err != nil {
		return nil, err
	}
	if err := st.ref("titles", titleID); err != nil {
		return nil, err
	}
	if err := st.ref("users", authorID); err != nil {
		return nil, err
	}
	return []any{id, titleID, text, authorID, int32(score), pubDate}, nil
}

func parseComment(rec record, st *state) ([]any, error) {
	id, err := rec.id("id")
	if err != nil {
		return nil, err
	}
	reviewID, err := rec.id("review_id")
	if err != nil {
		return nil, err
	}
	text, err := rec.str("text")
	if err != nil {
		return nil, err
	}
	authorID, err := rec.id("author")
	if err != nil {
		return nil, err
	}
	pubDate, err := rec.pubDate(st.now)
	if err != nil {
		return nil, err
	}
	if err := st.ref("reviews", reviewID); err != nil {
		return nil, err
	}
	if err := st.ref("users", authorID); err != nil {
		return nil, err
	}
	return []any{id, reviewID, text, authorID, pubDate}, nil
}
