package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "escaped tab runs collapse to one space",
			in:   `{"company_name": "Acme\t\t\tSp. z o.o."}`,
			want: `{"company_name": "Acme Sp. z o.o."}`,
		},
		{
			name: "literal tabs collapse to one space",
			in:   "{\"company_name\": \"Acme\t\tSp. z o.o.\"}",
			want: `{"company_name": "Acme Sp. z o.o."}`,
		},
		{
			name: "whitespace runs collapse",
			in:   "{\"company_name\":   \"Acme\" }\n\n",
			want: `{"company_name": "Acme" }`,
		},
		{
			name: "trailing backslashes close the string",
			in:   `{"company_name": "Acme\\\`,
			want: `{"company_name": "Acme"`,
		},
		{
			name: "clean input unchanged",
			in:   `{"company_name": "Acme"}`,
			want: `{"company_name": "Acme"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepairResponse(tt.in))
		})
	}
}

func TestRepairResponse_TabbedJSONParsesAfterRepair(t *testing.T) {
	raw := "{\"company_name\": \"Acme\t\t Warszawa\", \"gross_value\": 123.0,\n\"tax_value\": 23.0, \"net_value\": 100.0, \"currency\": \"PLN\"}"

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(RepairResponse(raw)), &m))
	assert.Equal(t, "Acme Warszawa", m["company_name"])
}
