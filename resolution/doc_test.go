package resolution_test

import (
	"context"
	"fmt"
	"log"

	"github.com/herbrand/fol-engine/parser"
	"github.com/herbrand/fol-engine/resolution"
)

func Example() {
	kb := resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	for _, text := range []string{
		"King(John)",
		"Greedy(John)",
		"forall x. King(x) and Greedy(x) => Evil(x)",
	} {
		s, err := parser.Sentence(text)
		if err != nil {
			log.Fatal(err)
		}
		kb.Tell(s)
	}
	q, err := parser.Sentence("Evil(John)")
	if err != nil {
		log.Fatal(err)
	}
	result, err := kb.Ask(context.Background(), q)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result)
	// Output: true
}
