package dto

// PageQuery 页码分页
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize 填充默认值，返回 limit 与 offset
func (q *PageQuery) Normalize(defaultSize int) (limit, offset int) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultSize
	}
	return q.PageSize, (q.Page - 1) * q.PageSize
}

// CursorQuery 游标分页，cursor 为上一页最后一条记录的 id
type CursorQuery struct {
	Cursor   string `form:"cursor"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LimitQuery 仅限制条数
type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
