package dto

// ListQuery carries the common pagination query parameters.
type ListQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

// ListModulesQuery filters and pages the module listing.
type ListModulesQuery struct {
	ListQuery
	Subject string `form:"subject"`
}

// CreateModuleRequest adds a curriculum module.
type CreateModuleRequest struct {
	ID          string `json:"id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	GradeLevel  string `json:"grade_level"`
	SeqNum      int    `json:"seq_num"`
}

// CreateChapterRequest adds a chapter under a module.
type CreateChapterRequest struct {
	ID       string `json:"id" binding:"required"`
	ModuleID string `json:"module_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	SeqNum   int    `json:"seq_num"`
}

// UpdateChapterContentRequest replaces a chapter's text.
type UpdateChapterContentRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateProgressRequest records reading progress in a chapter.
type UpdateProgressRequest struct {
	CompletionPct float64 `json:"completion_pct"`
	Completed     bool    `json:"completed"`
}

// HistoryQuery filters and pages the question history listing.
type HistoryQuery struct {
	ListQuery
	ChapterID string `form:"chapter_id"`
	ModuleID  string `form:"module_id"`
	Mode      string `form:"mode"`
}
