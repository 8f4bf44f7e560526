package terms_test

import (
	"testing"

	"github.com/corpusql/blacklab-core/codec"
	"github.com/corpusql/blacklab-core/internal/memindex"
	"github.com/corpusql/blacklab-core/terms"
)

func buildSegment(t *testing.T, segmentID string, docs [][]string) *codec.SegmentReader {
	t.Helper()
	ix := memindex.New()
	for doc, tokens := range docs {
		ix.AddAnnotation("contents%word", doc, tokens, true)
	}
	ix.Freeze()
	files, err := codec.WriteSegment(ix, segmentID, "memindex", codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("WriteSegment(%s): %v", segmentID, err)
	}
	reader, err := codec.OpenSegmentReader(files, segmentID, "memindex")
	if err != nil {
		t.Fatalf("OpenSegmentReader(%s): %v", segmentID, err)
	}
	return reader
}

func TestGlobalTermsUnionAcrossSegments(t *testing.T) {
	seg1 := buildSegment(t, "seg-1", [][]string{{"apple", "banana"}})
	seg2 := buildSegment(t, "seg-2", [][]string{{"banana", "cherry"}})

	svc, err := terms.Build([]terms.Input{
		{SegmentID: "seg-1", Reader: seg1, Field: "contents%word"},
		{SegmentID: "seg-2", Reader: seg2, Field: "contents%word"},
	}, codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// S3: "banana" occurs in both segments and must map to a single global
	// id shared by both.
	if svc.NumTerms() != 3 {
		t.Fatalf("NumTerms = %d, want 3 (apple, banana, cherry)", svc.NumTerms())
	}

	bananaID, ok := svc.GlobalID([]byte("banana"))
	if !ok {
		t.Fatal("banana not found in global terms")
	}

	map1, ok := svc.SegmentToGlobal("seg-1")
	if !ok {
		t.Fatal("seg-1 mapping missing")
	}
	map2, ok := svc.SegmentToGlobal("seg-2")
	if !ok {
		t.Fatal("seg-2 mapping missing")
	}

	found1, found2 := false, false
	for _, g := range map1 {
		if g == bananaID {
			found1 = true
		}
	}
	for _, g := range map2 {
		if g == bananaID {
			found2 = true
		}
	}
	if !found1 || !found2 {
		t.Fatal("banana's global id not reachable from both segments' local mappings")
	}
}

func TestGlobalTermsSortPositionInvariant(t *testing.T) {
	seg1 := buildSegment(t, "seg-1", [][]string{{"Zebra", "apple"}})
	seg2 := buildSegment(t, "seg-2", [][]string{{"apple", "banana"}})

	svc, err := terms.Build([]terms.Input{
		{SegmentID: "seg-1", Reader: seg1, Field: "contents%word"},
		{SegmentID: "seg-2", Reader: seg2, Field: "contents%word"},
	}, codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	appleID, _ := svc.GlobalID([]byte("apple"))
	bananaID, _ := svc.GlobalID([]byte("banana"))
	zebraID, _ := svc.GlobalID([]byte("Zebra"))

	// Q3: sort order must be consistent with the collator regardless of
	// which segment a term pair is resolved through: apple < banana < Zebra
	// case-insensitively.
	if svc.SortPos(appleID, true) >= svc.SortPos(bananaID, true) {
		t.Fatalf("expected apple before banana insensitively")
	}
	if svc.SortPos(bananaID, true) >= svc.SortPos(zebraID, true) {
		t.Fatalf("expected banana before Zebra insensitively")
	}
}

func TestGroupOfSharesInsensitivePosition(t *testing.T) {
	seg := buildSegment(t, "seg-1", [][]string{{"Apple", "apple", "APPLE"}})

	svc, err := terms.Build([]terms.Input{
		{SegmentID: "seg-1", Reader: seg, Field: "contents%word"},
	}, codec.ByteCollator{}, codec.FoldCollator{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	id, ok := svc.GlobalID([]byte("apple"))
	if !ok {
		t.Fatal("apple missing")
	}
	group := svc.GroupOf(id)
	if len(group) != 3 {
		t.Fatalf("GroupOf(apple) = %d members, want 3 (Apple/apple/APPLE)", len(group))
	}
}
