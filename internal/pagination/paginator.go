package pagination

import (
    "context"
    "fmt"
    "strings"
    "time"

    "gorm.io/gorm"
)

type Order string

const (
    ASC  Order = "ASC"
    DESC Order = "DESC"
)

func (o Order) reverse() Order {
    if o == ASC {
        return DESC
    }
    return ASC
}

// Column 一个排序列；JoinPath 非空时表示通过 join 引入的表前缀
type Column struct {
    Name     string
    JoinPath string
    // Time 列的边界值解码回 time.Time 再绑定。
    // 游标里存的是 RFC3339 文本，直接按字符串绑定会和驱动落库的
    // 时间格式做文本比较（sqlite 存 "2006-01-02 15:04:05..."），边界失效。
    Time bool
}

func (c Column) qualified() string {
    if c.JoinPath != "" {
        return c.JoinPath + "." + c.Name
    }
    return c.Name
}

// key 游标 JSON 中使用的键
func (c Column) key() string {
    if c.JoinPath != "" {
        return c.JoinPath + "." + c.Name
    }
    return c.Name
}

// Cursorable 行类型按列名暴露游标取值（显式接口，不走反射）
type Cursorable interface {
    CursorValue(column string) interface{}
}

// PageInfo 与游标一起返回的分页元信息
type PageInfo struct {
    StartCursor     string `json:"startCursor"`
    EndCursor       string `json:"endCursor"`
    HasNextPage     bool   `json:"hasNextPage"`
    HasPreviousPage bool   `json:"hasPreviousPage"`
}

// Params 分页参数；After/Before 至多一个非空
type Params struct {
    Limit  int
    After  string
    Before string
}

// Paginator 基于排序列 + limit+1 超量拉取的双向游标分页。
// 同一个走查的所有调用必须使用相同的排序列序列。
type Paginator[T Cursorable] struct {
    columns []Column
    order   Order
    limit   int
    after   string
    before  string
}

func New[T Cursorable](columns []Column, params Params, order Order) *Paginator[T] {
    limit := params.Limit
    if limit <= 0 {
        limit = 10
    }
    return &Paginator[T]{
        columns: columns,
        order:   order,
        limit:   limit,
        after:   params.After,
        before:  params.Before,
    }
}

// Paginate 在 query 之上追加边界条件与排序，拉取 limit+1 行。
// 多出的一行只用来推断 hasNextPage/hasPreviousPage，返回前会裁掉。
func (p *Paginator[T]) Paginate(ctx context.Context, query *gorm.DB) ([]T, PageInfo, error) {
    if p.after != "" && p.before != "" {
        return nil, PageInfo{}, fmt.Errorf("%w: both after and before supplied", ErrInvalidCursor)
    }

    boundary, err := p.decodeBoundary()
    if err != nil {
        return nil, PageInfo{}, err
    }

    if boundary != nil {
        expr, args := p.boundaryExpr(boundary, p.columns)
        query = query.Where("("+expr+")", args...)
    }

    order := p.order
    if p.after == "" && p.before != "" {
        // before 翻页：反序取数，返回前再反转回自然顺序
        order = order.reverse()
    }
    query = query.Order(p.orderClause(order))

    var rows []T
    if err := query.WithContext(ctx).Limit(p.limit + 1).Find(&rows).Error; err != nil {
        return nil, PageInfo{}, err
    }

    hasMore := len(rows) > p.limit
    if hasMore {
        rows = rows[:p.limit]
    }
    if p.after == "" && p.before != "" {
        reverseRows(rows)
    }

    info := PageInfo{
        HasPreviousPage: p.after != "" || (p.before != "" && hasMore),
        HasNextPage:     p.before != "" || hasMore,
    }
    if len(rows) > 0 {
        info.StartCursor = p.encode(rows[0])
        info.EndCursor = p.encode(rows[len(rows)-1])
    }
    return rows, info, nil
}

func (p *Paginator[T]) decodeBoundary() (Cursor, error) {
    raw := p.after
    if raw == "" {
        raw = p.before
    }
    if raw == "" {
        return nil, nil
    }
    cursor, err := DecodeCursor(raw)
    if err != nil {
        return nil, err
    }
    // 键集合必须与排序列一一对应，不允许带错形状的游标静默走偏
    if len(cursor) != len(p.columns) {
        return nil, ErrInvalidCursor
    }
    for _, col := range p.columns {
        val, ok := cursor[col.key()]
        if !ok {
            return nil, ErrInvalidCursor
        }
        if col.Time {
            s, ok := val.(string)
            if !ok {
                return nil, fmt.Errorf("%w: %s is not a timestamp", ErrInvalidCursor, col.key())
            }
            t, err := time.Parse(time.RFC3339Nano, s)
            if err != nil {
                return nil, fmt.Errorf("%w: %s is not a timestamp", ErrInvalidCursor, col.key())
            }
            cursor[col.key()] = t
        }
    }
    return cursor, nil
}

// boundaryExpr 按排序列构造字典序边界条件：
// col OP v OR (col = v AND <后续列递归>)
// 多列之间用相等性续接，单列边界在列值重复时是歧义的。
func (p *Paginator[T]) boundaryExpr(cursor Cursor, cols []Column) (string, []interface{}) {
    col := cols[0]
    val := cursor[col.key()]
    op := p.operator()

    if len(cols) == 1 {
        return fmt.Sprintf("%s %s ?", col.qualified(), op), []interface{}{val}
    }

    rest, restArgs := p.boundaryExpr(cursor, cols[1:])
    expr := fmt.Sprintf("%s %s ? OR (%s = ? AND (%s))", col.qualified(), op, col.qualified(), rest)
    args := append([]interface{}{val, val}, restArgs...)
    return expr, args
}

func (p *Paginator[T]) operator() string {
    if p.after != "" {
        if p.order == ASC {
            return ">"
        }
        return "<"
    }
    // before 是 after 的镜像
    if p.order == ASC {
        return "<"
    }
    return ">"
}

func (p *Paginator[T]) orderClause(order Order) string {
    parts := make([]string, len(p.columns))
    for i, col := range p.columns {
        parts[i] = col.qualified() + " " + string(order)
    }
    return strings.Join(parts, ", ")
}

func (p *Paginator[T]) encode(row T) string {
    payload := make(Cursor, len(p.columns))
    for _, col := range p.columns {
        payload[col.key()] = row.CursorValue(col.Name)
    }
    return EncodeCursor(payload)
}

func reverseRows[T any](rows []T) {
    for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
        rows[i], rows[j] = rows[j], rows[i]
    }
}
