package util

import (
	"encoding/base64"
	"errors"
	"strconv"

	"github.com/goccy/go-json"
)

var ErrInvalidCursor = errors.New("invalid cursor")

type idCursor struct {
	LastID uint64 `json:"last_id"`
}

// EncodeCursor 将最后一条记录的 ID 编码为不透明游标
func EncodeCursor(lastID uint64) string {
	if lastID == 0 {
		return ""
	}
	b, _ := json.Marshal(idCursor{LastID: lastID})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor 解析游标，空游标返回 0；兼容直接传入十进制 ID
func DecodeCursor(cursor string) (uint64, error) {
	if cursor == "" {
		return 0, nil
	}
	if id, err := strconv.ParseUint(cursor, 10, 64); err == nil {
		return id, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	var c idCursor
	if err = json.Unmarshal(b, &c); err != nil || c.LastID == 0 {
		return 0, ErrInvalidCursor
	}
	return c.LastID, nil
}
