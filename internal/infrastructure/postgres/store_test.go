package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/swapmarket/swapmarket/internal/domain/fault"
)

func TestTranslateTxConflict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"deadlock detected", &pgconn.PgError{Code: "40P01"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"wrapped deadlock", fmt.Errorf("failed to reject offers: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"unique violation passes through", &pgconn.PgError{Code: "23505"}, false},
		{"plain error passes through", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateTxConflict(tt.err)
			if tt.conflict {
				assert.Equal(t, fault.KindConflict, fault.KindOf(got))
				assert.Equal(t, fault.CodeConcurrentUpdate, fault.CodeOf(got))
			} else {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
