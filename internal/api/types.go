package api

import "time"

// Link is the JSON representation of a short link.
type Link struct {
	ID           int64      `doc:"Record id"                       json:"id"`
	Code         string     `doc:"Short code"                      example:"abc123" json:"code"`
	Target       string     `doc:"Destination URL"                 json:"target"`
	ShortURL     string     `doc:"Full short URL"                  json:"shortUrl"`
	RedirectType int        `doc:"HTTP redirect status (301/302)"  json:"redirectType"`
	Clicks       int64      `doc:"Unique click count"              json:"clicks"`
	LastClickAt  *time.Time `doc:"Most recent attributed click"    json:"lastClickAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ClickEntry is the JSON representation of a click log row.
type ClickEntry struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Target    string    `json:"target"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Referer   string    `json:"referer,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateLinkRequest creates a short link, optionally with a generated code.
type CreateLinkRequest struct {
	Body struct {
		Target       string `doc:"Destination URL (http or https)" format:"uri" json:"target"`
		Code         string `doc:"Custom code; generated when empty" json:"code,omitempty"`
		RedirectType int    `doc:"301 or 302, defaults to 302" json:"redirectType,omitempty"`
	}
}

// CreateLinkResponse is the created link.
type CreateLinkResponse struct {
	Status int
	Body   Link
}

// GetLinkRequest fetches one link by id.
type GetLinkRequest struct {
	ID int64 `doc:"Link id" path:"id"`
}

// LinkResponse wraps a single link.
type LinkResponse struct {
	Body Link
}

// UpdateLinkRequest rewrites code, target and redirect type for a link.
type UpdateLinkRequest struct {
	ID   int64 `doc:"Link id" path:"id"`
	Body struct {
		Target       string `doc:"Destination URL (http or https)" format:"uri" json:"target"`
		Code         string `doc:"New code (rename keeps the id)" json:"code"`
		RedirectType int    `doc:"301 or 302, defaults to 302" json:"redirectType,omitempty"`
	}
}

// DeleteLinkRequest removes a link and its click rows.
type DeleteLinkRequest struct {
	ID int64 `doc:"Link id" path:"id"`
}

// DeleteLinkResponse reports how many click rows went with the link.
type DeleteLinkResponse struct {
	Body struct {
		Deleted bool `json:"deleted"`
	}
}

// ListLinksRequest filters and orders the link listing.
type ListLinksRequest struct {
	Search string `doc:"Substring match on code or target" query:"search"`
	SortBy string `doc:"code|target|clicks|created_at|last_click_at" query:"sortBy"`
	Order  string `doc:"asc or desc (default)" query:"order"`
}

// ListLinksResponse is the filtered listing.
type ListLinksResponse struct {
	Body struct {
		Links []Link `json:"links"`
	}
}

// ListClicksRequest pages through the click log.
type ListClicksRequest struct {
	Code   string `doc:"Restrict to one code" query:"code"`
	Limit  int    `doc:"Page size, default 100" query:"limit"`
	Offset int    `doc:"Rows to skip" query:"offset"`
}

// ListClicksResponse is a page of the click log.
type ListClicksResponse struct {
	Body struct {
		Clicks []ClickEntry `json:"clicks"`
		Total  int64        `json:"total"`
	}
}

// StatsResponse is the store-wide totals.
type StatsResponse struct {
	Body struct {
		TotalLinks  int64 `json:"totalLinks"`
		TotalClicks int64 `json:"totalClicks"`
	}
}
