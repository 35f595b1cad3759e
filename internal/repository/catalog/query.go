package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/db/redis"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// fieldAlias maps search core fields to FT schema aliases.
var fieldAlias = map[search.Field]string{
	search.FieldTitle:   fieldTitle,
	search.FieldSKU:     fieldSKU,
	search.FieldContent: fieldContent,
	search.FieldExcerpt: fieldExcerpt,
}

// hardFilterClause is the visibility gate every product query carries:
// published status and not excluded from search.
func hardFilterClause(f search.Filters) string {
	var sb strings.Builder
	sb.WriteString("@" + fieldStatus + ":{" + product.StatusPublish + "}")
	sb.WriteString(" @" + fieldVisibility + ":{" + visibilityVisible + "}")
	if f.ExcludeOutOfStock {
		sb.WriteString(" -@" + fieldStock + ":{" + string(product.OutOfStock) + "}")
	}
	return sb.String()
}

// fieldMatchClause builds an infix wildcard clause over one text field.
// Any whitespace token matching somewhere in the field qualifies the
// document (dialect 2); the ranker decides how strong the match is.
func fieldMatchClause(alias, query string) string {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		clauses = append(clauses, "*"+redis.EscapeToken(tok)+"*")
	}
	return "@" + alias + ":(" + strings.Join(clauses, "|") + ")"
}

// termMembershipClause matches products belonging to any of the term ids.
func termMembershipClause(alias string, ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "@" + alias + ":{" + strings.Join(parts, "|") + "}"
}

// attrMembershipClause matches products carrying any "taxonomy:id" entry.
func attrMembershipClause(taxo string, ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = redis.EscapeTag(fmt.Sprintf("%s:%d", taxo, id))
	}
	return "@" + fieldAttrIDs + ":{" + strings.Join(parts, "|") + "}"
}

// termNameClause matches taxonomy terms by taxonomy and name fragment.
func termNameClause(taxo, fragment string) string {
	clause := "@" + termFieldTaxonomy + ":{" + redis.EscapeTag(taxo) + "}"
	if match := fieldMatchClause(termFieldName, fragment); match != "" {
		clause += " " + match
	}
	return clause
}
