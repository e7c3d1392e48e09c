package chaining

import (
	"fmt"
	"strings"

	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/format"
)

// Explain renders every collected proof as an indented tree, one line
// per derived goal, with the proof's bindings and a legend for any
// normalisation symbols. Only positive results can be explained.
func (q *Query) Explain() (string, error) {
	if !q.complete {
		return "", errors.New("query is not complete: %w", errors.ErrInvalidState)
	}
	if len(q.proofs) == 0 {
		return "", errors.New("query has a negative result, which has no explanation: %w",
			errors.ErrInvalidState)
	}
	f := format.NewFormatter()
	var sb strings.Builder
	for i, p := range q.proofs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Proof %d:\n", i+1)
		if err := renderProof(f, &sb, p); err != nil {
			return "", err
		}
	}
	if legend := f.Legend(); legend != "" {
		sb.WriteString("where:\n")
		sb.WriteString(legend)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// Explain renders a single proof with its own formatter.
func (p Proof) Explain() (string, error) {
	f := format.NewFormatter()
	var sb strings.Builder
	if err := renderProof(f, &sb, p); err != nil {
		return "", err
	}
	if legend := f.Legend(); legend != "" {
		sb.WriteString("where:\n")
		sb.WriteString(legend)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func renderProof(f *format.Formatter, sb *strings.Builder, p Proof) error {
	bindings, err := f.Bindings(p.Bindings)
	if err != nil {
		return err
	}
	fmt.Fprintf(sb, "bindings %s\n", bindings)
	return renderNode(f, sb, p, p.Root, 1)
}

func renderNode(f *format.Formatter, sb *strings.Builder, p Proof, node ProofNode, depth int) error {
	goal, err := f.Predicate(p.Bindings.ResolvePredicate(node.Goal))
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	if len(node.Children) == 0 {
		fmt.Fprintf(sb, "%s%s  [fact]\n", indent, goal)
		return nil
	}
	fmt.Fprintf(sb, "%s%s  [by rule]\n", indent, goal)
	for _, child := range node.Children {
		if err := renderNode(f, sb, p, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
