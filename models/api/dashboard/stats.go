package dashboardapimodels

import "ncp-tracker-backend/models"

type StatusCount struct {
	Status      models.NcpStatus `json:"status"`
	StatusHuman string           `json:"status_human"`
	Count       int64            `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type Stats struct {
	Total    int64         `json:"total"`
	Open     int64         `json:"open"`
	Archived int64         `json:"archived"`
	ByStatus []StatusCount `json:"by_status"`
	ByMonth  []MonthCount  `json:"by_month"`
	TopSkus  []KeyCount    `json:"top_skus"`
	Machines []KeyCount    `json:"top_machines"`
}

type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}
