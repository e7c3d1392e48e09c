package fuzz

import (
	"github.com/herbrand/fol-engine/cnf"
	"github.com/herbrand/fol-engine/parser"
)

func Fuzz(data []byte) int {
	sentences, err := parser.Sentences(string(data))
	if err != nil {
		return 0
	}
	for _, s := range sentences {
		cnf.Convert(s)
	}
	return 1
}
