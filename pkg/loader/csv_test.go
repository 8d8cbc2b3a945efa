package loader

import (
	"strings"
	"testing"

	"github.com/linkscope/linkscope/pkg/model"
)

func TestReadPlain(t *testing.T) {
	src := "from,to\na,b\nb,c\na,b\n"
	g, err := ReadPlain(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPlain: %v", err)
	}
	if g.Kind() != model.Plain {
		t.Errorf("kind = %v, want plain", g.Kind())
	}
	if g.Len() != 3 {
		t.Errorf("nodes = %d, want 3", g.Len())
	}
	if len(g.Edges()) != 2 {
		t.Errorf("edges = %d, want 2 (duplicate a,b collapsed)", len(g.Edges()))
	}
	if i, ok := g.NodeIndex("a"); !ok || i != 0 {
		t.Errorf("node 'a' index = %d,%v, want 0,true", i, ok)
	}
}

func TestReadPlainSkipsBlankEndpoints(t *testing.T) {
	src := "from,to\na,\n,b\na,b\n"
	g, err := ReadPlain(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPlain: %v", err)
	}
	if g.Len() != 2 || len(g.Edges()) != 1 {
		t.Errorf("got %d nodes %d edges, want 2 nodes 1 edge", g.Len(), len(g.Edges()))
	}
}

func TestReadPlainTrimsWhitespace(t *testing.T) {
	src := "from,to\n a , b \n"
	g, err := ReadPlain(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPlain: %v", err)
	}
	if _, ok := g.NodeIndex("a"); !ok {
		t.Error("trimmed node 'a' not found")
	}
}

func TestReadPlainErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check string
	}{
		{"empty source", "", CheckHeader},
		{"one column header", "from\n", CheckHeader},
		{"no data rows", "from,to\n", CheckRows},
		{"only blank rows", "from,to\na,\n", CheckRows},
	}
	for _, tt := range tests {
		_, err := ReadPlain(strings.NewReader(tt.src))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		le, ok := AsLoadError(err)
		if !ok {
			t.Errorf("%s: error %v is not a LoadError", tt.name, err)
			continue
		}
		if le.Check != tt.check {
			t.Errorf("%s: check = %q, want %q", tt.name, le.Check, tt.check)
		}
	}
}

func TestReadMeta(t *testing.T) {
	src := "from,to\n1,1\n2,1\n,\n"
	g, err := ReadMeta(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if g.Kind() != model.Meta {
		t.Errorf("kind = %v, want meta", g.Kind())
	}
	if g.Len() != 3 {
		t.Fatalf("links = %d, want 3", g.Len())
	}

	if k := g.Entity(0).Link.Kind; k != model.SelfLoop {
		t.Errorf("link 1 kind = %v, want self-loop", k)
	}
	// Row "2,1" names itself in from, but to is 1, so it stays regular.
	if k := g.Entity(1).Link.Kind; k != model.Regular {
		t.Errorf("link 2 kind = %v, want regular", k)
	}
	if k := g.Entity(2).Link.Kind; k != model.BareNode {
		t.Errorf("link 3 kind = %v, want bare-node", k)
	}
}

func TestReadMetaNonNumericMeansAbsent(t *testing.T) {
	src := "from,to\nx,1\n1,?\n"
	g, err := ReadMeta(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	l1 := g.Entity(0).Link
	if l1.From != nil || l1.To == nil || *l1.To != 1 {
		t.Errorf("link 1 refs = %v,%v, want nil,1", l1.From, l1.To)
	}
	if l1.Kind != model.BareNode {
		t.Errorf("link 1 kind = %v, want bare-node", l1.Kind)
	}
}

func TestReadMetaAbsentReferenceMakesNoEdge(t *testing.T) {
	src := "from,to\n99,1\n"
	g, err := ReadMeta(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	// to-ref 1 is the link itself, so the only edge is 1 -> 1.
	if len(g.Edges()) != 1 || g.Edges()[0] != (model.Edge{From: 0, To: 0}) {
		t.Errorf("edges = %v, want [{0 0}]", g.Edges())
	}
}

func TestReadMetaShortRowsConsumeIDs(t *testing.T) {
	src := "from,to\nlonely\n2,2\n"
	g, err := ReadMeta(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("links = %d, want 1 (short row skipped)", g.Len())
	}

	// The skipped row still consumed id 1, so the surviving row is id 2 and
	// from==to==2 makes it a self-loop.
	l := g.Entity(0).Link
	if l.ID != 2 {
		t.Errorf("id = %d, want 2 by physical row order", l.ID)
	}
	if l.Kind != model.SelfLoop {
		t.Errorf("kind = %v, want self-loop", l.Kind)
	}
	if i, ok := g.LinkIndex(2); !ok || i != 0 {
		t.Errorf("LinkIndex(2) = %d,%v, want 0,true", i, ok)
	}
	if _, ok := g.LinkIndex(1); ok {
		t.Error("LinkIndex(1) found a link for the skipped row")
	}
}

func TestReadMetaNoUsableRows(t *testing.T) {
	for _, src := range []string{"from,to\n", "from,to\nlonely\n"} {
		_, err := ReadMeta(strings.NewReader(src))
		le, ok := AsLoadError(err)
		if !ok || le.Check != CheckRows {
			t.Errorf("%q: err = %v, want rows LoadError", src, err)
		}
	}
}

func TestRaggedRowsDropped(t *testing.T) {
	src := "from,to\na,b\nlonely\nc,d,extra\n"
	g, err := ReadPlain(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPlain: %v", err)
	}
	if len(g.Edges()) != 2 {
		t.Errorf("edges = %d, want 2 (short row dropped, wide row kept)", len(g.Edges()))
	}
}
