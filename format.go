package annealing

import (
	"fmt"
	"strings"
)

// String summarizes the configured search. After a search the start set is
// shown as resolved against the dataset, label excluded.
func (s *Searcher) String() string {
	var b strings.Builder
	b.WriteString("\tSimulated annealing search.\n\tStart set: ")
	b.WriteString(s.startSetText())
	b.WriteString("\n")
	return b.String()
}

func (s *Searcher) startSetText() string {
	switch {
	case s.resolved:
		return oneBased(s.starting)
	case strings.TrimSpace(s.params.StartSet) != "":
		return s.params.StartSet
	default:
		return "random set"
	}
}

// FormatResult renders a search result for people. names, when given, maps
// attribute indices to display names.
func FormatResult(res Result, names []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Merit of best subset found: %.4f\n", res.Merit)
	fmt.Fprintf(&b, "Selected attributes: %s : %d\n", oneBasedOrNone(res.Subset), len(res.Subset))
	for _, i := range res.Subset {
		if i < len(names) {
			fmt.Fprintf(&b, "    %s\n", names[i])
		}
	}

	if len(res.Iterations) > 0 {
		b.WriteString("\nIterations:\n")
		fmt.Fprintf(&b, "  %-4s %8s %10s  %s\n", "#", "steps", "merit", "subset")
		for _, it := range res.Iterations {
			fmt.Fprintf(&b, "  %-4d %8d %10.4f  %s\n",
				it.Iteration+1, it.Steps, it.Merit, oneBasedOrNone(it.Subset))
		}
	}

	return b.String()
}

func oneBasedOrNone(indices []int) string {
	if len(indices) == 0 {
		return "(none)"
	}
	return oneBased(indices)
}
