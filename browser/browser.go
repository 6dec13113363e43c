// Package browser implements the tab/command/event facade consumed by a
// UI layer. It holds no rendering or windowing code of its own — only
// the tab bookkeeping and the Navigate/AddTab/CloseTab/ChangeActiveTab/
// FetchImage command surface, with tabs addressed by integer TabIDs so
// commands can name a tab without holding a reference into the UI's
// slice.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/aldermoss/enginecore/asset"
	"github.com/aldermoss/enginecore/css"
	"github.com/aldermoss/enginecore/nav"
	"github.com/aldermoss/enginecore/script"
)

// TabID identifies a tab across the command/event surface. The zero value
// is never assigned to a tab.
type TabID uint32

// Tab is one open tab's state: its current page (nil until a navigation
// completes) and whatever URL is in flight.
type Tab struct {
	ID      TabID
	URL     string
	Page    *nav.Page
	Loading bool
}

// Browser is the facade's top-level state: every open tab, which one is
// active, and the collaborators (navigator, loader) shared across tabs —
// the underlying HTTP client is immutably shared across tabs.
type Browser struct {
	mu        sync.Mutex
	tabs      map[TabID]*Tab
	order     []TabID // insertion order, for "first remaining tab" on close
	active    TabID
	nextID    TabID
	navigator *nav.Navigator
	loader    *asset.Loader
}

// New creates a Browser with no open tabs, driving navigations through
// navigator and fetching images through loader.
func New(navigator *nav.Navigator, loader *asset.Loader) *Browser {
	return &Browser{
		tabs:      make(map[TabID]*Tab),
		navigator: navigator,
		loader:    loader,
	}
}

// --- Commands ---

// AddTabCommand creates a tab, optionally navigating it to URL immediately.
type AddTabCommand struct {
	URL string // empty: a blank tab
}

// TabAddedEvent is AddTabCommand's success result.
type TabAddedEvent struct {
	TabID TabID
}

// AddTab creates a new tab and makes it active, returning its id.
func (b *Browser) AddTab(cmd AddTabCommand) TabAddedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.tabs[id] = &Tab{ID: id, URL: cmd.URL}
	b.order = append(b.order, id)
	b.active = id

	return TabAddedEvent{TabID: id}
}

// CloseTabCommand closes the named tab.
type CloseTabCommand struct {
	TabID TabID
}

// TabClosedEvent is CloseTabCommand's result.
type TabClosedEvent struct {
	TabID TabID
}

// ActiveTabChangedEvent reports the browser's new active tab, emitted
// either directly (ChangeActiveTab) or as a side effect of closing the
// active tab: if the active tab was closed, this is emitted for the
// first remaining tab.
type ActiveTabChangedEvent struct {
	TabID TabID
}

// CloseTab removes a tab. If it was the active tab and other tabs remain,
// the first remaining tab (by original AddTab order) becomes active and a
// second event is returned alongside the close event.
func (b *Browser) CloseTab(cmd CloseTabCommand) (TabClosedEvent, *ActiveTabChangedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasActive := b.active == cmd.TabID
	delete(b.tabs, cmd.TabID)
	for i, id := range b.order {
		if id == cmd.TabID {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}

	closed := TabClosedEvent{TabID: cmd.TabID}
	if !wasActive || len(b.order) == 0 {
		if wasActive {
			b.active = 0
		}
		return closed, nil
	}

	b.active = b.order[0]
	return closed, &ActiveTabChangedEvent{TabID: b.active}
}

// ChangeActiveTabCommand switches which tab is active.
type ChangeActiveTabCommand struct {
	TabID TabID
}

// ChangeActiveTab switches the active tab, or returns an error if TabID
// names a tab that does not exist.
func (b *Browser) ChangeActiveTab(cmd ChangeActiveTabCommand) (ActiveTabChangedEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.tabs[cmd.TabID]; !ok {
		return ActiveTabChangedEvent{}, fmt.Errorf("browser: no such tab %d", cmd.TabID)
	}
	b.active = cmd.TabID
	return ActiveTabChangedEvent{TabID: cmd.TabID}, nil
}

// NavigateCommand drives one tab to a new URL.
type NavigateCommand struct {
	TabID TabID
	URL   string
}

// NavigateSuccessEvent carries the page a navigation produced.
type NavigateSuccessEvent struct {
	TabID TabID
	Page  *nav.Page
}

// NavigateErrorEvent carries a failed navigation's error.
type NavigateErrorEvent struct {
	TabID TabID
	Err   *nav.NavigationError
}

// Navigate runs a full navigation for cmd.TabID against cmd.URL and
// records the result on the tab. The default user-agent stylesheet is not
// added here: the caller installs it on its own css.StyleResolver with
// SetUserAgentStylesheet. Navigate starts from an empty sheet list, so the
// page carries only the author sheets discovered during parsing.
func (b *Browser) Navigate(ctx context.Context, cmd NavigateCommand) (*NavigateSuccessEvent, *NavigateErrorEvent) {
	b.mu.Lock()
	tab, ok := b.tabs[cmd.TabID]
	b.mu.Unlock()
	if !ok {
		navErr := &nav.NavigationError{Kind: nav.ErrInvalidURL, Err: fmt.Errorf("no such tab %d", cmd.TabID)}
		return nil, &NavigateErrorEvent{TabID: cmd.TabID, Err: navErr}
	}

	b.mu.Lock()
	tab.Loading = true
	tab.URL = cmd.URL
	b.mu.Unlock()

	page, err := b.navigator.Navigate(ctx, cmd.URL, []*css.StyleSheet{})

	b.mu.Lock()
	tab.Loading = false
	if err == nil {
		tab.Page = page
	}
	b.mu.Unlock()

	if err != nil {
		navErr, ok := err.(*nav.NavigationError)
		if !ok {
			navErr = &nav.NavigationError{Kind: nav.ErrRequest, Err: err}
		}
		return nil, &NavigateErrorEvent{TabID: cmd.TabID, Err: navErr}
	}
	return &NavigateSuccessEvent{TabID: cmd.TabID, Page: page}, nil
}

// FetchImageCommand requests raw image bytes for a tab's page.
type FetchImageCommand struct {
	TabID TabID
	URL   string
}

// ImageLoadedEvent carries a fetched image's bytes and response headers.
type ImageLoadedEvent struct {
	TabID           TabID
	URL             string
	Bytes           []byte
	ResponseHeaders map[string]string
}

// FetchImage loads an image resource through the shared loader.
func (b *Browser) FetchImage(ctx context.Context, cmd FetchImageCommand) (*ImageLoadedEvent, error) {
	resource := b.loader.Load(ctx, cmd.URL, asset.KindImage)
	if resource.Err != nil {
		return nil, resource.Err
	}
	return &ImageLoadedEvent{
		TabID: cmd.TabID,
		URL:   resource.URL,
		Bytes: resource.Content,
		ResponseHeaders: map[string]string{
			"Content-Type": resource.ContentType,
		},
	}, nil
}

// Tab returns a snapshot of a tab's current state, or nil if it doesn't
// exist. The returned Tab is a copy: mutating it has no effect on the
// browser's state.
func (b *Browser) Tab(id TabID) *Tab {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tabs[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// ActiveTabID returns the currently active tab's id, or 0 if none is open.
func (b *Browser) ActiveTabID() TabID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// NewScriptExecutor is a small convenience constructor so cmd/enginecore
// doesn't need to import the script package directly just to wire a
// Navigator together.
func NewScriptExecutor() *script.Executor { return script.NewExecutor() }
