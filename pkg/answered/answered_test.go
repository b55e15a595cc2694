package answered

import (
	"context"
	"testing"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
)

func newTestChecker(containerRelations ...string) (*Checker, *graph.InMemoryStore) {
	store := graph.NewInMemoryStore()
	gw := graph.NewGateway(store, graph.DefaultRetryPolicy(), 100)
	return New(gw, containerRelations...), store
}

func TestIsAnsweredDirectMatch(t *testing.T) {
	c, store := newTestChecker()
	store.Seed(directPattern, []graph.Record{{"d": graph.Node{ElementID: "dp-1"}}})

	ok, err := c.IsAnswered(context.Background(), graph.Node{ElementID: "app-1"}, "Q_Name")
	if err != nil {
		t.Fatalf("IsAnswered() error = %v", err)
	}
	if !ok {
		t.Fatal("expected answered via direct pattern")
	}
}

func TestIsAnsweredContainerMatch(t *testing.T) {
	c, store := newTestChecker()
	store.Seed(directPattern, nil)
	store.Seed(containerQuery(DefaultContainerRelation), []graph.Record{{"d": graph.Node{ElementID: "dp-2"}}})

	ok, err := c.IsAnswered(context.Background(), graph.Node{ElementID: "app-1"}, "Q_PriorAddress")
	if err != nil {
		t.Fatalf("IsAnswered() error = %v", err)
	}
	if !ok {
		t.Fatal("expected answered via container-mediated pattern")
	}
}

func TestIsAnsweredNoMatchAnywhere(t *testing.T) {
	c, store := newTestChecker()
	store.Seed(directPattern, nil)
	store.Seed(containerQuery(DefaultContainerRelation), nil)

	ok, err := c.IsAnswered(context.Background(), graph.Node{ElementID: "app-1"}, "Q_Unasked")
	if err != nil {
		t.Fatalf("IsAnswered() error = %v", err)
	}
	if ok {
		t.Fatal("expected not answered")
	}
}

func TestIsAnsweredChecksEveryConfiguredContainerRelation(t *testing.T) {
	c, store := newTestChecker("HAS_HISTORY_PROPERTY", "HAS_EMPLOYMENT_RECORD")
	store.Seed(directPattern, nil)
	store.Seed(containerQuery("HAS_HISTORY_PROPERTY"), nil)
	store.Seed(containerQuery("HAS_EMPLOYMENT_RECORD"), []graph.Record{{"d": graph.Node{ElementID: "dp-3"}}})

	ok, err := c.IsAnswered(context.Background(), graph.Node{ElementID: "app-1"}, "Q_PriorEmployer")
	if err != nil {
		t.Fatalf("IsAnswered() error = %v", err)
	}
	if !ok {
		t.Fatal("expected answered via the second configured container relation")
	}
}

func TestIsAnsweredInCurrentContextIgnoresContainer(t *testing.T) {
	c, store := newTestChecker()
	store.Seed(directPattern, nil)
	store.Seed(containerQuery(DefaultContainerRelation), []graph.Record{{"d": graph.Node{ElementID: "dp-4"}}})

	ok, err := c.IsAnsweredInCurrentContext(context.Background(), graph.Node{ElementID: "app-1"}, "Q_Addr")
	if err != nil {
		t.Fatalf("IsAnsweredInCurrentContext() error = %v", err)
	}
	if ok {
		t.Fatal("expected current-context check to ignore a container-mediated answer")
	}
}

func TestIsAnsweredNormalizesContainerSourceToParent(t *testing.T) {
	c, store := newTestChecker()
	applicant := graph.Node{ElementID: "app-1"}
	container := graph.Node{ElementID: "hist-1"}

	store.Seed(parentLookupQuery(DefaultContainerRelation), []graph.Record{{"parent": applicant}})
	store.Seed(directPattern, []graph.Record{{"d": graph.Node{ElementID: "dp-5"}}})

	ok, err := c.IsAnswered(context.Background(), container, "Q_Name")
	if err != nil {
		t.Fatalf("IsAnswered() error = %v", err)
	}
	if !ok {
		t.Fatal("expected answered once normalized to the owning applicant")
	}

	invocations := store.Invocations()
	found := false
	for _, inv := range invocations {
		if inv.Statement == directPattern && inv.Params["sourceId"] == "app-1" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the direct-pattern query to run against the normalized parent id, not the container id")
	}
}

func TestIsAnsweredInCurrentContextSkipsParentNormalization(t *testing.T) {
	c, store := newTestChecker()
	container := graph.Node{ElementID: "hist-1"}

	store.Seed(directPattern, []graph.Record{{"d": graph.Node{ElementID: "dp-6"}}})

	ok, err := c.IsAnsweredInCurrentContext(context.Background(), container, "Q_Addr")
	if err != nil {
		t.Fatalf("IsAnsweredInCurrentContext() error = %v", err)
	}
	if !ok {
		t.Fatal("expected a direct match under the container itself")
	}

	for _, inv := range store.Invocations() {
		if inv.Statement == parentLookupQuery(DefaultContainerRelation) {
			t.Fatal("expected current-context check to never look up a parent")
		}
	}
}

func TestIsAnsweredNilSourceIsNotAnswered(t *testing.T) {
	c, _ := newTestChecker()

	ok, err := c.IsAnswered(context.Background(), graph.Node{}, "Q_Name")
	if err != nil {
		t.Fatalf("IsAnswered() error = %v", err)
	}
	if ok {
		t.Fatal("expected a source node with no derivable id to never be answered")
	}
}
