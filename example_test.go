package autoprop_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/autoprop"
)

// Example_apply derives a summary property from a marked line of the body.
func Example_apply() {
	dir, err := os.MkdirTemp("", "autoprop-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	note := "---\nsummary: \n---\nSummary: Ship the release\nOther text\n"
	if err := os.WriteFile(filepath.Join(dir, "plan.md"), []byte(note), 0644); err != nil {
		log.Fatal(err)
	}

	eng, err := autoprop.New(dir, autoprop.WithRules(autoprop.Rule{
		Key:            "summary",
		Enabled:        true,
		Pattern:        "Summary:",
		OmitPattern:    true,
		TrimWhitespace: true,
	}))
	if err != nil {
		log.Fatal(err)
	}

	if _, err := eng.Apply(context.Background(), "plan"); err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "plan.md"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))
	// Output:
	// ---
	// summary: Ship the release
	// ---
	// Summary: Ship the release
	// Other text
}

// ExampleReduce counts open tasks.
func ExampleReduce() {
	lines := autoprop.SplitBody("---\ntodos: 0\n---\n- [ ] one\n- [x] two\n- [ ] three")

	v, err := autoprop.Reduce(lines, autoprop.Rule{
		Key:      "todos",
		Enabled:  true,
		Pattern:  "- [ ]",
		Selector: "count",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(v)
	// Output: 2
}
