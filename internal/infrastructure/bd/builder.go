package db

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"procurement-system/pkg/types"
)

// ApplyListParams applies whitelisted filters, sorting and pagination from
// a parsed query to a squirrel select builder.
//
// A filter key with a "_from"/"_to" suffix whose base column is whitelisted
// becomes a range bound, so amount_from=1000&amount_to=5000 narrows on the
// amount column. Exact keys still win over suffix interpretation.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	for jsonField, val := range filter.Filter {
		if dbCol, ok := allowedMap[jsonField]; ok {
			if s, ok := val.(string); ok && strings.Contains(s, ",") {
				builder = builder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
			} else {
				builder = builder.Where(sq.Eq{dbCol: val})
			}
			continue
		}

		if base, found := strings.CutSuffix(jsonField, "_from"); found {
			if dbCol, ok := allowedMap[base]; ok {
				builder = builder.Where(sq.GtOrEq{dbCol: val})
			}
			continue
		}
		if base, found := strings.CutSuffix(jsonField, "_to"); found {
			if dbCol, ok := allowedMap[base]; ok {
				builder = builder.Where(sq.LtOrEq{dbCol: val})
			}
		}
	}

	if len(filter.Sort) > 0 {
		for jsonField, dir := range filter.Sort {
			dbCol, ok := allowedMap[jsonField]
			if !ok {
				continue
			}
			sqlDir := "ASC"
			if strings.ToLower(dir) == "desc" {
				sqlDir = "DESC"
			}
			builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
		}
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset >= 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}
