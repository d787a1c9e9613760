package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestMySQLErrorClassification(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}

	assert.True(t, isDuplicate(dup))
	assert.True(t, isDuplicate(fmt.Errorf("wrapped: %w", dup)))
	assert.False(t, isDuplicate(fk))
	assert.True(t, isForeignKey(fk))
	assert.False(t, isForeignKey(errors.New("boom")))
	assert.False(t, isDuplicate(nil))
}

func TestSetClause(t *testing.T) {
	var s setClause
	assert.True(t, s.empty())
	s.add("price", 1.5)
	s.add("url", nil)
	assert.False(t, s.empty())
	assert.Equal(t, []string{"price = ?", "url = ?"}, s.cols)
	assert.Equal(t, []any{1.5, nil}, s.args)
}
