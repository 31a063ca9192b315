package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/masterconnect/bandstore/models"
)

func TestFilter_WhereClause(t *testing.T) {
	since := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    Filter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty",
			filter:    Filter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "status only",
			filter:    Filter{Status: models.StatusActive},
			wantWhere: "WHERE status = $1",
			wantArgs:  []any{"active"},
		},
		{
			name:      "status and instrument",
			filter:    Filter{Status: models.StatusActive, Instrument: "drums"},
			wantWhere: "WHERE status = $1 AND instrument_needed = $2",
			wantArgs:  []any{"active", "drums"},
		},
		{
			name:      "author",
			filter:    Filter{UserID: "u1"},
			wantWhere: "WHERE user_id = $1",
			wantArgs:  []any{"u1"},
		},
		{
			name:      "created since",
			filter:    Filter{CreatedSince: since},
			wantWhere: "WHERE created_at >= $1",
			wantArgs:  []any{since},
		},
		{
			name:      "all predicates keep positional order",
			filter:    Filter{Status: models.StatusClosed, Instrument: "bass", UserID: "u2", CreatedSince: since},
			wantWhere: "WHERE status = $1 AND instrument_needed = $2 AND user_id = $3 AND created_at >= $4",
			wantArgs:  []any{"closed", "bass", "u2", since},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.whereClause()
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
