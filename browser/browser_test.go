package browser

import "testing"

func TestAddTabMakesItActive(t *testing.T) {
	b := New(nil, nil)
	evt := b.AddTab(AddTabCommand{URL: "about:blank"})
	if evt.TabID == 0 {
		t.Fatalf("expected a non-zero tab id")
	}
	if b.ActiveTabID() != evt.TabID {
		t.Fatalf("expected the new tab to become active")
	}
}

func TestCloseActiveTabActivatesFirstRemaining(t *testing.T) {
	b := New(nil, nil)
	first := b.AddTab(AddTabCommand{}).TabID
	second := b.AddTab(AddTabCommand{}).TabID

	closed, activated := b.CloseTab(CloseTabCommand{TabID: second})
	if closed.TabID != second {
		t.Fatalf("unexpected closed tab id: %d", closed.TabID)
	}
	if activated == nil || activated.TabID != first {
		t.Fatalf("expected the first remaining tab to become active, got %+v", activated)
	}
	if b.ActiveTabID() != first {
		t.Fatalf("expected active tab id to be %d, got %d", first, b.ActiveTabID())
	}
}

func TestCloseInactiveTabDoesNotChangeActiveTab(t *testing.T) {
	b := New(nil, nil)
	first := b.AddTab(AddTabCommand{}).TabID
	second := b.AddTab(AddTabCommand{}).TabID
	b.ChangeActiveTab(ChangeActiveTabCommand{TabID: first})

	_, activated := b.CloseTab(CloseTabCommand{TabID: second})
	if activated != nil {
		t.Fatalf("expected no active-tab change event, got %+v", activated)
	}
	if b.ActiveTabID() != first {
		t.Fatalf("expected active tab to remain %d, got %d", first, b.ActiveTabID())
	}
}

func TestCloseLastTabLeavesNoActiveTab(t *testing.T) {
	b := New(nil, nil)
	only := b.AddTab(AddTabCommand{}).TabID
	b.CloseTab(CloseTabCommand{TabID: only})
	if b.ActiveTabID() != 0 {
		t.Fatalf("expected no active tab after closing the last one, got %d", b.ActiveTabID())
	}
}

func TestChangeActiveTabRejectsUnknownTab(t *testing.T) {
	b := New(nil, nil)
	if _, err := b.ChangeActiveTab(ChangeActiveTabCommand{TabID: 999}); err == nil {
		t.Fatalf("expected an error for an unknown tab id")
	}
}

func TestTabReturnsSnapshotCopy(t *testing.T) {
	b := New(nil, nil)
	id := b.AddTab(AddTabCommand{URL: "about:blank"}).TabID
	snap := b.Tab(id)
	if snap == nil {
		t.Fatalf("expected a tab snapshot")
	}
	snap.URL = "mutated"
	if b.Tab(id).URL == "mutated" {
		t.Fatalf("expected Tab() to return a copy, not a live reference")
	}
}
