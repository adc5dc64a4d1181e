package api

import (
	"net/url"
	"testing"

	"github.com/gobuffalo/buffalo"
)

func (ts *TestSuite) TestNewQuery() {
	tests := []struct {
		name             string
		qs               string
		wantLimit        int
		wantPage         int
		wantFilterStatus string
	}{
		{
			name:      "default",
			qs:        "",
			wantLimit: 10,
			wantPage:  1,
		},
		{
			name:             "limit and status filter",
			qs:               "limit=2&filter=status:approved",
			wantLimit:        2,
			wantPage:         1,
			wantFilterStatus: "approved",
		},
		{
			name:      "page",
			qs:        "page=5",
			wantLimit: 10,
			wantPage:  5,
		},
		{
			name:      "negative page",
			qs:        "page=-5",
			wantLimit: 10,
			wantPage:  1,
		},
		{
			name:      "limit too large",
			qs:        "limit=500",
			wantLimit: 50,
			wantPage:  1,
		},
		{
			name:             "spaces",
			qs:               "limit= 2 &filter= status : paid ",
			wantLimit:        2,
			wantPage:         1,
			wantFilterStatus: "paid",
		},
	}
	for _, tt := range tests {
		ts.T().Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.qs)

			got := NewQueryParams(buffalo.ParamValues(values))
			ts.Equal(tt.wantLimit, got.Limit(), "limit is incorrect")
			ts.Equal(tt.wantPage, got.Page(), "page is incorrect")
			ts.Equal(tt.wantFilterStatus, got.Filter("status"), "filter status is incorrect")
		})
	}
}
