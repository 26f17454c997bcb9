package models

// Requests for market HTTP endpoints. Defined in domain for consistency and reuse.

type DashboardRequest struct {
	Period int `query:"period" json:"period" default:"20" validate:"gte=1,lte=200"`
}

type PricesRequest struct {
	Limit int `query:"limit" json:"limit" default:"0" validate:"gte=0,lte=200"`
}
