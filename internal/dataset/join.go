package dataset

// Relation is a keyed set of rows carrying named value columns. It is the
// operand of Join: every subset filtered out of a source becomes a
// single-column Relation before it is folded into the unified table.
type Relation map[Key]map[string]float64

// Join is the inner join of a and b on Key. The result keeps only keys
// present in both and carries the columns of both sides.
//
// Join is associative and commutative provided a and b have disjoint column
// names; keys are unique by construction of the map.
func Join(a, b Relation) Relation {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	out := make(Relation, len(small))
	for k := range small {
		if _, ok := large[k]; !ok {
			continue
		}
		cols := make(map[string]float64, len(a[k])+len(b[k]))
		for c, v := range a[k] {
			cols[c] = v
		}
		for c, v := range b[k] {
			cols[c] = v
		}
		out[k] = cols
	}
	return out
}

// JoinAll folds Join over rels from left to right. Because Join is
// associative and commutative the order of rels does not affect the result.
// JoinAll of no relations is the empty relation.
func JoinAll(rels ...Relation) Relation {
	if len(rels) == 0 {
		return Relation{}
	}
	acc := rels[0]
	for _, r := range rels[1:] {
		acc = Join(acc, r)
	}
	return acc
}

// Keys returns the relation's keys in (location, sex, year) order.
func (r Relation) Keys() []Key {
	keys := make([]Key, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// riskSubset filters rows to one category label and keys its value under
// column. A repeated key within the subset is a DUPLICATE_KEY error.
func riskSubset(rows []RiskRow, source, label, column string) (Relation, error) {
	rel := make(Relation)
	for _, row := range rows {
		if row.Category != label {
			continue
		}
		k := row.Key()
		if _, dup := rel[k]; dup {
			return nil, NewDuplicateKeyError(source, label, k)
		}
		rel[k] = map[string]float64{column: row.Value}
	}
	if len(rel) == 0 {
		return nil, &DataIntegrityError{
			Code:     ErrCodeMissingCategory,
			Message:  "required risk category has no rows",
			Source:   source,
			Category: label,
		}
	}
	return rel, nil
}

// measureSubset filters rows to one measure code and keys its value under column.
func measureSubset(rows []MeasureRow, measureID int, column string) (Relation, error) {
	rel := make(Relation)
	for _, row := range rows {
		if row.MeasureID != measureID {
			continue
		}
		k := row.Key()
		if _, dup := rel[k]; dup {
			return nil, NewDuplicateKeyError(SourceMeasures, column, k)
		}
		rel[k] = map[string]float64{column: row.Value}
	}
	if len(rel) == 0 {
		return nil, &DataIntegrityError{
			Code:     ErrCodeMissingMeasure,
			Message:  "required disease measure has no rows",
			Source:   SourceMeasures,
			Category: column,
		}
	}
	return rel, nil
}
