package task

type RefreshRetryTask struct {
	SKU        string `json:"sku"`
	RetryCount int    `json:"retry_count"` // Attempts made so far
	Error      string `json:"error"`       // Error message from the last failure
}

func (t *RefreshRetryTask) TaskType() string {
	return TypeRefreshRetry
}

func (t *RefreshRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
