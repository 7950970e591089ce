package refdata

import (
	"sort"
	"strings"

	"github.com/fixwell/autocare-match/internal/model"
)

// PartIndex is the queryable form of the PCdb part terminology catalog.
// Built once per run; read-only afterwards.
type PartIndex struct {
	byID   map[int64]*model.ReferencePart
	byName map[string]*model.ReferencePart
	// ids is the sorted iteration order for full scans, keeping fuzzy and
	// description passes deterministic.
	ids      []int64
	postings map[string][]int64
}

// BuildPartIndex aggregates rows by part id, normalizes names, and derives
// the searchable token set used for keyword recall.
func BuildPartIndex(rows []model.ReferencePart) *PartIndex {
	idx := &PartIndex{
		byID:     make(map[int64]*model.ReferencePart, len(rows)),
		byName:   make(map[string]*model.ReferencePart, len(rows)),
		postings: make(map[string][]int64),
	}

	for i := range rows {
		row := rows[i]
		texts := append([]string{row.PartName, row.Description}, row.Aliases...)
		row.SearchableTokens = Tokenize(texts...)

		entry := row
		idx.byID[row.PartTerminologyID] = &entry

		name := NormalizePartName(row.PartName)
		if name != "" {
			if prior, ok := idx.byName[name]; !ok || entry.PartTerminologyID < prior.PartTerminologyID {
				idx.byName[name] = &entry
			}
		}
	}

	idx.ids = make([]int64, 0, len(idx.byID))
	for id := range idx.byID {
		idx.ids = append(idx.ids, id)
	}
	sort.Slice(idx.ids, func(i, j int) bool { return idx.ids[i] < idx.ids[j] })

	for _, id := range idx.ids {
		for _, token := range idx.byID[id].SearchableTokens {
			idx.postings[token] = append(idx.postings[token], id)
		}
	}

	return idx
}

// LookupName finds the part whose normalized name equals the given
// normalized string.
func (idx *PartIndex) LookupName(normalized string) (*model.ReferencePart, bool) {
	entry, ok := idx.byName[normalized]
	return entry, ok
}

// ByID resolves a partTerminologyId back to its entry.
func (idx *PartIndex) ByID(id int64) (*model.ReferencePart, bool) {
	entry, ok := idx.byID[id]
	return entry, ok
}

// IDs returns every part id in ascending order.
func (idx *PartIndex) IDs() []int64 {
	return idx.ids
}

// Len returns the number of indexed parts.
func (idx *PartIndex) Len() int {
	return len(idx.ids)
}

// DescriptionText returns the aggregate text a description match scores
// against: name, description and aliases joined.
func (idx *PartIndex) DescriptionText(id int64) string {
	entry, ok := idx.byID[id]
	if !ok {
		return ""
	}
	texts := append([]string{entry.PartName, entry.Description}, entry.Aliases...)
	return strings.Join(texts, " ")
}
