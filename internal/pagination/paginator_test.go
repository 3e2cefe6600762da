package pagination

import (
    "context"
    "fmt"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"
)

type walkItem struct {
    ID    string `gorm:"primaryKey;type:varchar(36)"`
    Score int64  `gorm:"index"`
}

func (walkItem) TableName() string { return "walk_items" }

func (w walkItem) CursorValue(column string) interface{} {
    switch column {
    case "id":
        return w.ID
    case "score":
        return w.Score
    default:
        return nil
    }
}

var walkColumns = []Column{{Name: "score"}, {Name: "id"}}

func setupPaginationDB(t *testing.T, n int) *gorm.DB {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&walkItem{}))

    items := make([]walkItem, n)
    for i := 0; i < n; i++ {
        // 重复的 score 值，强制走多列字典序边界
        items[i] = walkItem{ID: fmt.Sprintf("item%05d", i), Score: int64(i / 2)}
    }
    if n > 0 {
        require.NoError(t, db.CreateInBatches(&items, 500).Error)
    }
    return db
}

func TestCursorRoundTrip(t *testing.T) {
    cursor := Cursor{"score": int64(42), "id": "item00084"}
    decoded, err := DecodeCursor(EncodeCursor(cursor))
    require.NoError(t, err)
    require.Equal(t, "item00084", decoded["id"])
    require.EqualValues(t, 42, decoded["score"])

    // 编码-解码-再编码必须逐字节一致
    require.Equal(t, EncodeCursor(cursor), EncodeCursor(decoded))
}

func TestDecodeCursorMalformed(t *testing.T) {
    _, err := DecodeCursor("not base64 at all!!!")
    require.ErrorIs(t, err, ErrInvalidCursor)

    _, err = DecodeCursor("aGVsbG8=") // base64("hello")，不是 JSON 对象
    require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPaginateRejectsMismatchedCursor(t *testing.T) {
    db := setupPaginationDB(t, 10)

    // 键集合与排序列不一致
    bad := EncodeCursor(Cursor{"score": int64(1)})
    p := New[walkItem](walkColumns, Params{Limit: 5, After: bad}, ASC)
    _, _, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.ErrorIs(t, err, ErrInvalidCursor)

    bad = EncodeCursor(Cursor{"score": int64(1), "other": "x"})
    p = New[walkItem](walkColumns, Params{Limit: 5, After: bad}, ASC)
    _, _, err = p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPaginateRejectsBothCursors(t *testing.T) {
    db := setupPaginationDB(t, 4)
    c := EncodeCursor(Cursor{"score": int64(1), "id": "item00002"})
    p := New[walkItem](walkColumns, Params{Limit: 5, After: c, Before: c}, ASC)
    _, _, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestWalkNoGapNoDuplicate(t *testing.T) {
    const total = 2500
    db := setupPaginationDB(t, total)

    seen := make(map[string]bool, total)
    var after string
    pages := 0
    for {
        p := New[walkItem](walkColumns, Params{Limit: 1000, After: after}, ASC)
        rows, info, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
        require.NoError(t, err)
        pages++

        for _, row := range rows {
            require.False(t, seen[row.ID], "row %s returned twice", row.ID)
            seen[row.ID] = true
        }
        if !info.HasNextPage {
            break
        }
        after = info.EndCursor
    }

    require.Equal(t, 3, pages)
    require.Len(t, seen, total)
}

func TestFirstPageInfo(t *testing.T) {
    db := setupPaginationDB(t, 15)
    p := New[walkItem](walkColumns, Params{Limit: 10}, ASC)
    rows, info, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.NoError(t, err)
    require.Len(t, rows, 10)
    require.True(t, info.HasNextPage)
    require.False(t, info.HasPreviousPage)
    require.NotEmpty(t, info.StartCursor)
    require.NotEmpty(t, info.EndCursor)
}

func TestSinglePageInfo(t *testing.T) {
    db := setupPaginationDB(t, 5)
    p := New[walkItem](walkColumns, Params{Limit: 10}, ASC)
    rows, info, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.NoError(t, err)
    require.Len(t, rows, 5)
    require.False(t, info.HasNextPage)
    require.False(t, info.HasPreviousPage)
}

func TestEmptyResult(t *testing.T) {
    db := setupPaginationDB(t, 0)
    p := New[walkItem](walkColumns, Params{Limit: 10}, ASC)
    rows, info, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.NoError(t, err)
    require.Empty(t, rows)
    require.Empty(t, info.StartCursor)
    require.Empty(t, info.EndCursor)
    require.False(t, info.HasNextPage)
}

func ids(rows []walkItem) []string {
    out := make([]string, len(rows))
    for i, r := range rows {
        out[i] = r.ID
    }
    return out
}

func TestBidirectionalSymmetry(t *testing.T) {
    db := setupPaginationDB(t, 30)
    ctx := context.Background()

    page := func(after, before string) ([]walkItem, PageInfo) {
        p := New[walkItem](walkColumns, Params{Limit: 10, After: after, Before: before}, ASC)
        rows, info, err := p.Paginate(ctx, db.Model(&walkItem{}))
        require.NoError(t, err)
        return rows, info
    }

    page1, info1 := page("", "")
    page2, info2 := page(info1.EndCursor, "")
    page3, info3 := page(info2.EndCursor, "")
    require.Len(t, page3, 10)

    // 从第 3 页向前翻两次，应回到第 1 页的行集合
    back2, backInfo := page("", info3.StartCursor)
    require.Equal(t, ids(page2), ids(back2))
    require.True(t, backInfo.HasNextPage)
    require.True(t, backInfo.HasPreviousPage)

    back1, firstInfo := page("", backInfo.StartCursor)
    require.Equal(t, ids(page1), ids(back1))
    require.True(t, firstInfo.HasNextPage)
    require.False(t, firstInfo.HasPreviousPage)
}

type timedItem struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    CreatedAt time.Time `gorm:"index"`
}

func (timedItem) TableName() string { return "timed_items" }

func (w timedItem) CursorValue(column string) interface{} {
    switch column {
    case "id":
        return w.ID
    case "created_at":
        return w.CreatedAt
    default:
        return nil
    }
}

var timedColumns = []Column{{Name: "created_at", Time: true}, {Name: "id"}}

// 时间列的边界必须按时间语义比较。sqlite 把时间落成
// "2006-01-02 15:04:05..." 文本，而游标里是 RFC3339；若按字符串绑定，
// 每一页都会原样重放上一页。
func TestTimeColumnWalkNoDuplicate(t *testing.T) {
    const total = 25
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&timedItem{}))

    base := time.Now().Add(-time.Hour)
    items := make([]timedItem, total)
    for i := 0; i < total; i++ {
        // 带纳秒，覆盖小数秒的往返
        items[i] = timedItem{
            ID:        fmt.Sprintf("row%05d", i),
            CreatedAt: base.Add(time.Duration(i)*time.Second + time.Duration(i*7)*time.Nanosecond),
        }
    }
    require.NoError(t, db.Create(&items).Error)

    seen := make(map[string]bool, total)
    var after string
    pages := 0
    for {
        p := New[timedItem](timedColumns, Params{Limit: 10, After: after}, DESC)
        rows, info, err := p.Paginate(context.Background(), db.Model(&timedItem{}))
        require.NoError(t, err)
        pages++

        for _, row := range rows {
            require.False(t, seen[row.ID], "row %s returned twice", row.ID)
            seen[row.ID] = true
        }
        if !info.HasNextPage {
            break
        }
        after = info.EndCursor
    }

    require.Equal(t, 3, pages)
    require.Len(t, seen, total)
}

func TestTimeColumnRejectsNonTimestampCursor(t *testing.T) {
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger: gormlogger.Default.LogMode(gormlogger.Silent),
    })
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&timedItem{}))

    bad := EncodeCursor(Cursor{"created_at": "yesterday", "id": "row00001"})
    p := New[timedItem](timedColumns, Params{Limit: 5, After: bad}, DESC)
    _, _, err = p.Paginate(context.Background(), db.Model(&timedItem{}))
    require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestDescendingWalk(t *testing.T) {
    db := setupPaginationDB(t, 20)
    p := New[walkItem](walkColumns, Params{Limit: 10}, DESC)
    rows, info, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.NoError(t, err)
    require.Len(t, rows, 10)
    require.Equal(t, "item00019", rows[0].ID)
    require.True(t, info.HasNextPage)

    p = New[walkItem](walkColumns, Params{Limit: 10, After: info.EndCursor}, DESC)
    rows2, info2, err := p.Paginate(context.Background(), db.Model(&walkItem{}))
    require.NoError(t, err)
    require.Equal(t, "item00009", rows2[0].ID)
    require.Equal(t, "item00000", rows2[len(rows2)-1].ID)
    require.False(t, info2.HasNextPage)
}
