package task

// ProductRefreshTask asks a worker to re-fetch a product's categories from
// the upstream catalog.
type ProductRefreshTask struct {
	SKU string `json:"sku"`
}

func (t *ProductRefreshTask) TaskType() string {
	return TypeProductRefresh
}

func (t *ProductRefreshTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
