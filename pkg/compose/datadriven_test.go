package compose_test

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/aretw0/fsnt/pkg/att"
	"github.com/aretw0/fsnt/pkg/compose"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/ops"
	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

// TestComposeDataDriven runs the scenarios under testdata/. Commands:
//
//	define name=<n> [tapes=(a,b)]   input is an ATT body
//	compose left=<n> right=<n> glue=(l:r,...) [flags] [cycles=N]
func TestComposeDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		defined := map[string]*fst.Transducer{}
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "define":
				var name string
				d.ScanArgs(t, "name", &name)
				body := d.Input + "\n"
				for _, arg := range d.CmdArgs {
					if arg.Key == "tapes" {
						body = "# tapes:\t" + strings.Join(arg.Vals, "\t") + "\n" + body
					}
				}
				tr, err := att.Read(strings.NewReader(body))
				require.NoError(t, err)
				defined[name] = tr
				return fmt.Sprintf("%d tapes, %d states", tr.TapeCount(), tr.Size())

			case "compose":
				var left, right string
				d.ScanArgs(t, "left", &left)
				d.ScanArgs(t, "right", &right)
				var glue []compose.Glue
				cycles := 2
				var opts []compose.Option
				for _, arg := range d.CmdArgs {
					switch arg.Key {
					case "glue":
						for _, v := range arg.Vals {
							g, err := compose.ParseGlue(v)
							require.NoError(t, err)
							glue = append(glue, g)
						}
					case "flags":
						opts = append(opts, compose.WithFlagsAsEpsilon(true))
					case "cycles":
						d.ScanArgs(t, "cycles", &cycles)
					}
				}
				out, err := compose.Compose(context.Background(), defined[left], defined[right], glue, opts...)
				if err != nil {
					return fmt.Sprintf("error: %v", err)
				}
				return describe(t, out, cycles)

			default:
				d.Fatalf(t, "unknown command %s", d.Cmd)
				return ""
			}
		})
	})
}

func describe(t *testing.T, tr *fst.Transducer, cycles int) string {
	var b strings.Builder
	names := make([]string, tr.TapeCount())
	for i := range names {
		names[i] = tr.TapeName(i)
	}
	fmt.Fprintf(&b, "tapes: %s\n", strings.Join(names, " "))
	fmt.Fprintf(&b, "states: %d transitions: %d finals: %d\n", tr.Size(), tr.TransitionCount(), len(tr.Finals()))

	found, err := ops.Expand(context.Background(), tr, cycles)
	require.NoError(t, err)
	var lines []string
	for _, p := range found {
		lines = append(lines, p.String())
	}
	slices.Sort(lines)
	lines = slices.Compact(lines)
	for _, l := range lines {
		fmt.Fprintf(&b, "%s\n", l)
	}
	return b.String()
}
