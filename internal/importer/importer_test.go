package importer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yamdb/proj/internal/lib/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCopier struct {
	tables []string
	rows   map[string][][]any
	failOn string
}

func (c *fakeCopier) Copy(ctx context.Context, table string, rows [][]any) (int64, error) {
	if table == c.failOn {
		return 0, errors.New("copy failed")
	}
	if c.rows == nil {
		c.rows = make(map[string][][]any)
	}
	c.tables = append(c.tables, table)
	c.rows[table] = append(c.rows[table], rows...)
	return int64(len(rows)), nil
}

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func seedFiles() map[string]string {
	return map[string]string{
		"category.csv": "id,name,slug\n1,Фильм,movie\n2,Книга,book\n3,Bad,not a slug\n",
		"users.csv": "id,username,email,role,bio,first_name,last_name\n" +
			"100,bingobongo,bingobongo@yamdb.fake,user,,,\n" +
			"101,me,me@yamdb.fake,user,,,\n" +
			"102,capt_obvious,capt@yamdb.fake,admin,bio,Capt,Obvious\n",
		"genre.csv":       "id,name,slug\n1,Драма,drama\n2,Комедия,comedy\n",
		"titles.csv":      "id,name,year,category\n1,Побег из Шоушенка,1994,1\n2,Future,2040,1\n3,Без категории,2001,\n",
		"genre_title.csv": "id,title_id,genre_id\n1,1,1\n2,3,2\n",
		"review.csv": "id,title_id,text,author,score,pub_date\n" +
			"1,1,Ставлю десять,100,10,2019-09-24T21:08:21.567Z\n" +
			"2,1,Too high,102,11,2019-09-24T21:08:21.567Z\n" +
			"3,1,From the future,102,5,2030-01-01T00:00:00Z\n",
		"comments.csv": "id,review_id,text,author,pub_date\n1,1,Согласен,102,2019-09-24T21:08:21.567Z\n",
	}
}

func TestRunImportsInDependencyOrder(t *testing.T) {
	copier := &fakeCopier{}
	imp := New(logger.New(io.Discard, false), copier, func() time.Time { return now })

	results := imp.Run(context.Background(), writeFiles(t, seedFiles()))

	require.Len(t, results, 7)
	for _, res := range results {
		assert.NoError(t, res.Err, res.File)
	}
	assert.Equal(t,
		[]string{"categories", "users", "genres", "titles", "genre_titles", "reviews", "comments"},
		copier.tables,
	)
}

func TestRunSkipsInvalidRows(t *testing.T) {
	copier := &fakeCopier{}
	imp := New(logger.New(io.Discard, false), copier, func() time.Time { return now })

	results := imp.Run(context.Background(), writeFiles(t, seedFiles()))

	skipped := make(map[string]int)
	for _, res := range results {
		skipped[res.File] = res.Skipped
	}
	assert.Equal(t, 1, skipped["category.csv"])
	assert.Equal(t, 1, skipped["users.csv"])
	assert.Equal(t, 1, skipped["titles.csv"])
	assert.Equal(t, 2, skipped["review.csv"])
	assert.Equal(t, 0, skipped["comments.csv"])

	require.Len(t, copier.rows["users"], 2)
	assert.Equal(t, []any{int64(100), "bingobongo", "bingobongo@yamdb.fake", "user", "", "", "", true}, copier.rows["users"][0])

	require.Len(t, copier.rows["titles"], 2)
	assert.Nil(t, copier.rows["titles"][1][3])
	assert.Equal(t, int64(1), *(copier.rows["titles"][0][3].(*int64)))

	require.Len(t, copier.rows["reviews"], 1)
	assert.Equal(t, int32(10), copier.rows["reviews"][0][4])
}

func TestRunContinuesAfterFailure(t *testing.T) {
	copier := &fakeCopier{failOn: "genres"}
	files := seedFiles()
	delete(files, "comments.csv")
	imp := New(logger.New(io.Discard, false), copier, func() time.Time { return now })

	results := imp.Run(context.Background(), writeFiles(t, files))

	require.Len(t, results, 7)
	assert.Error(t, results[2].Err)
	assert.True(t, errors.Is(results[6].Err, os.ErrNotExist))
	assert.Contains(t, copier.tables, "titles")
	assert.Contains(t, copier.tables, "reviews")
}

func TestParseRowsMissingColumn(t *testing.T) {
	copier := &fakeCopier{}
	imp := New(logger.New(io.Discard, false), copier, func() time.Time { return now })
	dir := writeFiles(t, map[string]string{"category.csv": "id,name\n1,Фильм\n"})

	results := imp.Run(context.Background(), dir)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].Skipped)
	assert.Empty(t, copier.rows["categories"])
}

func TestRunSkipsRowsWithMissingParents(t *testing.T) {
	files := seedFiles()
	files["review.csv"] = "id,title_id,text,author,score,pub_date\n" +
		"1,1,Ставлю десять,100,10,2019-09-24T21:08:21.567Z\n" +
		"2,1,By a skipped user,101,7,2019-09-24T21:08:21.567Z\n" +
		"3,2,On a skipped title,100,5,2019-09-24T21:08:21.567Z\n"
	files["comments.csv"] = "id,review_id,text,author,pub_date\n" +
		"1,1,Согласен,102,2019-09-24T21:08:21.567Z\n" +
		"2,3,Under a skipped review,102,2019-09-24T21:08:21.567Z\n" +
		"3,1,By a skipped user,101,2019-09-24T21:08:21.567Z\n"
	files["titles.csv"] = "id,name,year,category\n1,Побег из Шоушенка,1994,1\n2,Future,2099,1\n3,Bad category,2001,3\n"
	copier := &fakeCopier{}
	imp := New(logger.New(io.Discard, false), copier, func() time.Time { return now })

	results := imp.Run(context.Background(), writeFiles(t, files))

	for _, res := range results {
		require.NoError(t, res.Err, res.File)
	}
	require.Len(t, copier.rows["titles"], 1)
	require.Len(t, copier.rows["reviews"], 1)
	assert.Equal(t, int64(1), copier.rows["reviews"][0][0])
	require.Len(t, copier.rows["comments"], 1)
	assert.Equal(t, int64(1), copier.rows["comments"][0][0])
	// genre_title row 2 points at title 3, which was skipped
	require.Len(t, copier.rows["genre_titles"], 1)
	assert.Equal(t, 2, results[5].Skipped)
	assert.Equal(t, 2, results[6].Skipped)
}

func TestRunSkipsDuplicateRows(t *testing.T) {
	files := seedFiles()
	files["genre.csv"] = "id,name,slug\n1,Драма,drama\n2,Комедия,comedy\n3,Drama,drama\n2,Again,again\n"
	files["users.csv"] = "id,username,email,role,bio,first_name,last_name\n" +
		"100,bingobongo,bingobongo@yamdb.fake,user,,,\n" +
		"101,bingobongo,other@yamdb.fake,user,,,\n" +
		"102,capt_obvious,capt@yamdb.fake,admin,bio,Capt,Obvious\n" +
		"103,someone,capt@yamdb.fake,user,,,\n"
	files["review.csv"] = "id,title_id,text,author,score,pub_date\n" +
		"1,1,Ставлю десять,100,10,2019-09-24T21:08:21.567Z\n" +
		"2,1,Second opinion,100,3,2019-09-24T21:08:21.567Z\n" +
		"3,1,Another author,102,5,2019-09-24T21:08:21.567Z\n"
	copier := &fakeCopier{}
	imp := New(logger.New(io.Discard, false), copier, func() time.Time { return now })

	results := imp.Run(context.Background(), writeFiles(t, files))

	for _, res := range results {
		require.NoError(t, res.Err, res.File)
	}
	assert.Len(t, copier.rows["genres"], 2)
	assert.Equal(t, 2, results[2].Skipped)
	assert.Len(t, copier.rows["users"], 2)
	assert.Equal(t, 2, results[1].Skipped)
	require.Len(t, copier.rows["reviews"], 2)
	assert.Equal(t, int64(3), copier.rows["reviews"][1][0])
}

func TestRunSkipsChildrenOfFailedFile(t *testing.T) {
	copier := &fakeCopier{failOn: "titles"}
	imp := New(logger.New(io.Discard, false), copier, func() time.Time { return now })

	results := imp.Run(context.Background(), writeFiles(t, seedFiles()))

	assert.Error(t, results[3].Err)
	assert.Empty(t, copier.rows["genre_titles"])
	assert.Empty(t, copier.rows["reviews"])
	assert.Empty(t, copier.rows["comments"])
	assert.Equal(t, 2, results[4].Skipped)
}
