package models

// ImportedLead 文件导入解析出的线索（瞬态，仅在导入流程中存在）
type ImportedLead struct {
	RowNumber    int      `json:"row_number"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Source       string   `json:"source"`
	Location     string   `json:"location"`
	Budget       string   `json:"budget"`
	Notes        string   `json:"notes"`
	InterestTags []string `json:"interest_tags"`
	ContactPref  []string `json:"contact_pref"`
}

// ImportValidation 单条导入记录的校验结果。校验不阻断导入，由调用方决定取舍
type ImportValidation struct {
	RowNumber int      `json:"row_number"`
	Valid     bool     `json:"valid"`
	Messages  []string `json:"messages,omitempty"`
}
