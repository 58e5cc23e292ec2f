package dto

// JobRunResponse 手动触发任务的结果
type JobRunResponse struct {
	Job      string   `json:"job"`
	Affected int      `json:"affected"`
	Status   int      `json:"status"`
	Output   []string `json:"output"`
}

// JobInfoResponse 已注册任务
type JobInfoResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
