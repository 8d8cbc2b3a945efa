// Package loader reads the two tabular input shapes into graph models: plain
// mode treats columns as (fromLabel, toLabel) strings, links mode parses them
// as optional integer references and assigns link ids by 1-based row order.
//
// A failed load never produces a partial graph; callers get either a complete
// model or a *LoadError naming the check that failed.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linkscope/linkscope/pkg/model"
)

// LoadError reports a malformed source. Check names the specific validation
// that failed so the user-facing layer can explain the rejection.
type LoadError struct {
	Check  string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed (%s): %s", e.Check, e.Reason)
}

// AsLoadError unwraps err into a *LoadError if it is one.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	ok := errors.As(err, &le)
	return le, ok
}

// Validation check names carried by LoadError.
const (
	CheckHeader = "header"
	CheckRows   = "rows"
	CheckRead   = "read"
)

// readRows consumes the source, validates the header and returns every data
// row, short ones included. The modes filter rows themselves: links mode must
// see the physical row order because skipped rows still consume a link id.
func readRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &LoadError{Check: CheckHeader, Reason: "source is empty"}
	}
	if err != nil {
		return nil, &LoadError{Check: CheckRead, Reason: err.Error()}
	}
	if len(header) < 2 {
		return nil, &LoadError{Check: CheckHeader, Reason: "header must have at least two columns"}
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Check: CheckRead, Reason: err.Error()}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadPlain parses a plain node/edge graph: row 0 is a header, each following
// row contributes the edge (col0 → col1). Values are trimmed; a row with a
// blank endpoint is skipped.
func ReadPlain(r io.Reader) (*model.Graph, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	g := model.NewPlain()
	edges := 0
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		from := strings.TrimSpace(row[0])
		to := strings.TrimSpace(row[1])
		if from == "" || to == "" {
			continue
		}
		g.AddEdge(g.AddNode(from), g.AddNode(to))
		edges++
	}
	if edges == 0 {
		return nil, &LoadError{Check: CheckRows, Reason: "no valid edges found"}
	}
	return g, nil
}

// ReadMeta parses a links-as-nodes graph. Each data row becomes a link with
// id = 1-based physical row order; a short row is skipped but still consumes
// its id. Columns 0 and 1 are parsed as integer references, where a blank or
// non-numeric value means the reference is absent rather than a parse error.
func ReadMeta(r io.Reader) (*model.Graph, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	g := model.NewMeta()
	links := 0
	for n, row := range rows {
		if len(row) < 2 {
			continue
		}
		g.AddLink(n+1, parseRef(row[0]), parseRef(row[1]))
		links++
	}
	if links == 0 {
		return nil, &LoadError{Check: CheckRows, Reason: "no valid links found"}
	}
	g.BuildMetaEdges()
	return g, nil
}

func parseRef(field string) *int {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	v, err := strconv.Atoi(field)
	if err != nil {
		return nil
	}
	return model.IntRef(v)
}
