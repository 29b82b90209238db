package fsnt_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/fsnt"
	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/compose"
	"github.com/aretw0/fsnt/pkg/ops"
)

// Example composes a two-entry lexicon with a tagger glued on the surface tape.
// Only the entry the tagger knows survives.
func Example() {
	lexicon, err := att.Read(strings.NewReader("# tapes:\tlemma\tsurface\n0\t1\tgo\twent\n0\t1\tgo\tgoes\n1\n"))
	if err != nil {
		log.Fatal(err)
	}
	tagger, err := att.Read(strings.NewReader("# tapes:\tsurface\ttag\n0\t1\twent\tPAST\n1\n"))
	if err != nil {
		log.Fatal(err)
	}

	kit := fsnt.New()
	out, err := kit.Compose(context.Background(), lexicon, tagger, []compose.Glue{{Left: "surface", Right: "surface"}})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(out.TapeName(0), out.TapeName(1), out.TapeName(2))
	paths, err := ops.Expand(context.Background(), out, 0)
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	// Output:
	// lemma surface tag
	// go:went:PAST
}
