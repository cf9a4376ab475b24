// fieldscan extracts form fields from saved HTML files and runs them through
// the classification engine. It exists for offline evaluation of rule and
// keyword changes against captured pages; the live-document layer is a
// separate collaborator.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/formsense/field-classifier/pkg/classification"
	"github.com/formsense/field-classifier/pkg/ensemble"
	"github.com/formsense/field-classifier/pkg/features"
	"github.com/formsense/field-classifier/pkg/mlp"
	"github.com/formsense/field-classifier/pkg/observability/logging"
	"github.com/formsense/field-classifier/pkg/taxonomy"
)

type scanResult struct {
	Field  *features.FieldDescriptor           `json:"field"`
	Result classification.ClassificationResult `json:"result"`
}

func main() {
	snapshotPath := flag.String("snapshot", "", "Optional model snapshot to load")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: fieldscan [-snapshot model.json] <page.html> [...]")
		os.Exit(2)
	}
	if _, err := logging.Init("warn"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}

	engine, err := buildEngine(*snapshotPath)
	if err != nil {
		logging.Fatalf("Failed to build engine: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, path := range flag.Args() {
		fields, err := extractFields(path)
		if err != nil {
			logging.Errorf("Skipping %s: %v", path, err)
			continue
		}
		for _, d := range fields {
			_ = enc.Encode(scanResult{Field: d, Result: engine.Classify(d)})
		}
	}
}

func buildEngine(snapshotPath string) (*ensemble.Engine, error) {
	tax := taxonomy.Default()
	encoder, err := features.NewEncoder(tax)
	if err != nil {
		return nil, err
	}
	patternClf, err := classification.NewPatternClassifier(tax)
	if err != nil {
		return nil, err
	}
	network, err := mlp.New(mlp.Config{InputSize: encoder.Length(), OutputSize: tax.Size()})
	if err != nil {
		return nil, err
	}
	if snapshotPath != "" {
		snap, err := mlp.LoadSnapshotFile(snapshotPath)
		if err != nil {
			return nil, err
		}
		if err := network.Load(snap); err != nil {
			return nil, err
		}
	}
	learnedClf, err := classification.NewLearnedClassifier(tax, encoder, network, 0)
	if err != nil {
		return nil, err
	}
	return ensemble.NewEngine(patternClf, learnedClf, ensemble.NewArbiter(ensemble.ArbitrationConfig{}), nil), nil
}

// extractFields pulls a FieldDescriptor out of every input, select and
// textarea in the document.
func extractFields(path string) ([]*features.FieldDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var fields []*features.FieldDescriptor
	doc.Find("input, select, textarea").Each(func(_ int, sel *goquery.Selection) {
		inputType := strings.ToLower(sel.AttrOr("type", ""))
		switch goquery.NodeName(sel) {
		case "select":
			inputType = "select"
		case "textarea":
			inputType = "textarea"
		default:
			if inputType == "" {
				inputType = "text"
			}
		}
		if inputType == "hidden" || inputType == "submit" || inputType == "button" {
			return
		}

		d := &features.FieldDescriptor{
			Label:        labelFor(doc, sel),
			Name:         sel.AttrOr("name", ""),
			ID:           sel.AttrOr("id", ""),
			Placeholder:  sel.AttrOr("placeholder", ""),
			InputType:    inputType,
			AutofillHint: sel.AttrOr("autocomplete", ""),
		}
		d.ParentContext = parentContext(sel)
		d.SiblingContext = siblingContext(sel)
		fields = append(fields, d)
	})
	return fields, nil
}

// labelFor resolves the visible label: a <label for=...> reference first,
// then a wrapping <label>.
func labelFor(doc *goquery.Document, sel *goquery.Selection) string {
	if id, ok := sel.Attr("id"); ok && id != "" {
		if l := doc.Find(fmt.Sprintf("label[for=%q]", id)); l.Length() > 0 {
			return squash(l.First().Text())
		}
	}
	if l := sel.Closest("label"); l.Length() > 0 {
		return squash(l.Text())
	}
	return ""
}

// parentContext surfaces the nearest section heading or fieldset legend, the
// signal the date disambiguation stage keys on.
func parentContext(sel *goquery.Selection) string {
	if fs := sel.Closest("fieldset"); fs.Length() > 0 {
		if legend := fs.Find("legend"); legend.Length() > 0 {
			return squash(legend.First().Text())
		}
	}
	for p := sel.Parent(); p.Length() > 0; p = p.Parent() {
		if h := p.ChildrenFiltered("h1, h2, h3, h4, legend").First(); h.Length() > 0 {
			return squash(h.Text())
		}
	}
	return ""
}

func siblingContext(sel *goquery.Selection) string {
	parts := []string{squash(sel.Prev().Text()), squash(sel.Next().Text())}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
