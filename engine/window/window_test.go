package window

import "testing"

func TestBuilderDefaultsAndOptions(t *testing.T) {
	w := newEngineWindow()
	if w.title != "Room View" || w.Width() != 1280 || w.Height() != 720 || !w.resizable {
		t.Fatalf("unexpected defaults: %+v", w)
	}

	w = newEngineWindow(WithTitle("attic"), WithWidth(800), WithHeight(600), WithResizable(false))
	if w.title != "attic" || w.Width() != 800 || w.Height() != 600 || w.resizable {
		t.Fatalf("options not applied: %+v", w)
	}
}

func TestUnspawnedWindow(t *testing.T) {
	w := newEngineWindow()
	if w.IsRunning() {
		t.Fatal("window without a platform window reports running")
	}
	if err := w.Close(); err == nil {
		t.Fatal("closing an unspawned window should fail")
	}
}

func TestSetTitleKeepsLatest(t *testing.T) {
	w := newEngineWindow()
	w.SetTitle("NorthEast")
	w.SetTitle("SouthEast")
	select {
	case got := <-w.pendingTitle:
		if got != "SouthEast" {
			t.Fatalf("pending title = %q, want SouthEast", got)
		}
	default:
		t.Fatal("no pending title")
	}
}
