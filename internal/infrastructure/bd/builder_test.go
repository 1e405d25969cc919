package db

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-system/pkg/types"
)

var allowed = map[string]string{
	"status":     "status",
	"creator_id": "creator_id",
}

func base() sq.SelectBuilder {
	return sq.Select("id").From("requirements").PlaceholderFormat(sq.Dollar)
}

func TestApplyListParams_WhitelistedFilter(t *testing.T) {
	filter := types.Filter{Filter: map[string]interface{}{
		"status": "PENDING",
		"amount": "100", // not in the whitelist, must be dropped
	}}

	query, args, err := ApplyListParams(base(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "status = $1")
	assert.NotContains(t, query, "amount")
	assert.Equal(t, []interface{}{"PENDING"}, args)
}

func TestApplyListParams_CommaListBecomesIn(t *testing.T) {
	filter := types.Filter{Filter: map[string]interface{}{
		"status": "PENDING,SIGNED_1",
	}}

	query, args, err := ApplyListParams(base(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "status IN ($1,$2)")
	assert.Len(t, args, 2)
}

func TestApplyListParams_SortAndPagination(t *testing.T) {
	filter := types.Filter{
		Sort:           map[string]string{"creator_id": "desc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}

	query, _, err := ApplyListParams(base(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY creator_id DESC")
	assert.Contains(t, query, "LIMIT 10")
	assert.Contains(t, query, "OFFSET 20")
}

func TestApplyListParams_UnknownSortColumnIgnored(t *testing.T) {
	filter := types.Filter{Sort: map[string]string{"password_hash": "asc"}}

	query, _, err := ApplyListParams(base(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "ORDER BY")
}

func TestApplyListParams_RangeSuffixes(t *testing.T) {
	cols := map[string]string{"amount": "amount"}
	filter := types.Filter{Filter: map[string]interface{}{
		"amount_from": "1000",
		"amount_to":   "5000",
	}}

	query, args, err := ApplyListParams(base(), filter, cols).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "amount >= ")
	assert.Contains(t, query, "amount <= ")
	assert.Len(t, args, 2)
}

func TestApplyListParams_RangeSuffixNeedsWhitelistedBase(t *testing.T) {
	filter := types.Filter{Filter: map[string]interface{}{
		"amount_from": "1000", // amount is not whitelisted here
	}}

	query, args, err := ApplyListParams(base(), filter, allowed).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "amount")
	assert.Empty(t, args)
}
