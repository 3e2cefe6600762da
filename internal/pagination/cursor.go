package pagination

import (
    "encoding/base64"
    "encoding/json"
    "errors"
)

// ErrInvalidCursor 游标损坏或与排序列不匹配；继续分页会从错误位置开始，必须同步抛给调用方
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor 每个排序列到边界行取值的映射，对外以 base64(JSON) 传输
type Cursor map[string]interface{}

// EncodeCursor 序列化为 base64(JSON)。编解码必须逐字节往返。
func EncodeCursor(c Cursor) string {
    payload, err := json.Marshal(c)
    if err != nil {
        return ""
    }
    return base64.StdEncoding.EncodeToString(payload)
}

// DecodeCursor 解析 base64(JSON) 游标
func DecodeCursor(s string) (Cursor, error) {
    raw, err := base64.StdEncoding.DecodeString(s)
    if err != nil {
        return nil, ErrInvalidCursor
    }
    var c Cursor
    if err := json.Unmarshal(raw, &c); err != nil {
        return nil, ErrInvalidCursor
    }
    return c, nil
}
