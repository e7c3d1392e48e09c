package resolution

import (
	"fmt"
	"strings"

	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/format"
)

// Explain renders the derivation of the empty clause as a numbered,
// topologically sorted list of resolution steps. Each step names its two
// parents (a knowledge-base clause, a clause of the negated query, or an
// earlier step) and the unifier that produced it. A legend explains
// every normalisation symbol that appears.
//
// Only positive results can be explained: a failed saturation is not a
// proof of anything.
func (q *Query) Explain() (string, error) {
	if q.state != stateComplete {
		return "", errors.New("query %s is not complete: %w", q.id, errors.ErrInvalidState)
	}
	if !q.result {
		return "", errors.New("query %s has a negative result, which has no explanation: %w",
			q.id, errors.ErrInvalidState)
	}

	ordered := q.topoOrder()
	index := make(map[string]int, len(ordered))
	for i, k := range ordered {
		index[k] = i + 1
	}
	tag := func(c cnf.Clause) string {
		k := clauseKey(c)
		if i, ok := index[k]; ok {
			return fmt.Sprintf("#%d", i)
		}
		if q.negKeys[k] {
			return "¬Q"
		}
		return "KB"
	}

	f := format.NewFormatter()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Proof of %s:\n", q.goal)
	for i, k := range ordered {
		st := q.steps[k]
		resolvent, err := f.Clause(st.Resolvent)
		if err != nil {
			return "", err
		}
		p1, err := f.Clause(st.Parent1)
		if err != nil {
			return "", err
		}
		p2, err := f.Clause(st.Parent2)
		if err != nil {
			return "", err
		}
		unifier, err := f.Bindings(st.Unifier)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "#%d: %s\n", i+1, resolvent)
		fmt.Fprintf(&sb, "    from [%s] %s\n", tag(st.Parent1), p1)
		fmt.Fprintf(&sb, "    and  [%s] %s\n", tag(st.Parent2), p2)
		fmt.Fprintf(&sb, "    unifier %s\n", unifier)
	}
	if legend := f.Legend(); legend != "" {
		sb.WriteString("where:\n")
		sb.WriteString(legend)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// topoOrder walks the step DAG backwards from the empty clause,
// breadth-first, moving re-encountered ancestors to the back so that the
// final reversal lists every step after both of its parents.
func (q *Query) topoOrder() []string {
	list := []string{clauseKey(cnf.NewClause())}
	for i := 0; i < len(list); i++ {
		st, ok := q.steps[list[i]]
		if !ok {
			continue
		}
		for _, p := range []cnf.Clause{st.Parent1, st.Parent2} {
			pk := clauseKey(p)
			if _, derived := q.steps[pk]; !derived {
				continue
			}
			for j, k := range list {
				if k == pk {
					list = append(list[:j], list[j+1:]...)
					if j <= i {
						i--
					}
					break
				}
			}
			list = append(list, pk)
		}
	}
	for l, r := 0, len(list)-1; l < r; l, r = l+1, r-1 {
		list[l], list[r] = list[r], list[l]
	}
	return list
}
