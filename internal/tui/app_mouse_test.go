package tui

import (
	"testing"

	"github.com/duskwallet/duskwallet/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := tabWidthForTest(i)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("active=%d x past the tabs -> tab=%d, want -1", active, got)
		}
	}
}

// Active tabs pad the name by one column each side; inactive tabs wrap the
// shortcut letter in brackets. Both add two columns.
func tabWidthForTest(tabIdx int) int {
	nameWidths := []int{
		len("Dashboard"),
		len("Transactions"),
		len("Analysis"),
	}
	return nameWidths[tabIdx] + 2
}
