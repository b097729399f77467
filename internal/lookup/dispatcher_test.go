package lookup

import (
	"sync"
	"testing"

	"codeberg.org/snonux/smartdict/internal/render"
	"github.com/google/go-cmp/cmp"
)

func TestSerialDispatcher_RunsStepsInOrder(t *testing.T) {
	d := NewSerialDispatcher()
	defer d.Close()

	var got []int
	for i := 0; i < 5; i++ {
		d.DoAndWait(func() { got = append(got, i) })
	}

	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, got); diff != "" {
		t.Errorf("step order mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialDispatcher_SerializesConcurrentCallers(t *testing.T) {
	d := NewSerialDispatcher()
	defer d.Close()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.DoAndWait(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	if counter != 1000 {
		t.Errorf("counter = %d, want 1000", counter)
	}
}

func TestSerialDispatcher_DropsAfterClose(t *testing.T) {
	d := NewSerialDispatcher()
	d.Close()
	d.Close()

	ran := false
	d.DoAndWait(func() { ran = true })
	if ran {
		t.Error("step ran after Close")
	}
}

func TestSerialDispatcher_PropagatesPanic(t *testing.T) {
	d := NewSerialDispatcher()
	defer d.Close()

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
		// The dispatcher keeps working after a panicking step
		ran := false
		d.DoAndWait(func() { ran = true })
		if !ran {
			t.Error("dispatcher stopped after panic")
		}
	}()
	d.DoAndWait(func() { panic("boom") })
}

func TestDispatcherFunc(t *testing.T) {
	calls := 0
	var d Dispatcher = DispatcherFunc(func(fn func()) {
		calls++
		fn()
	})

	ran := false
	d.DoAndWait(func() { ran = true })
	if !ran || calls != 1 {
		t.Errorf("ran = %v, calls = %d", ran, calls)
	}
}

func TestResultCache(t *testing.T) {
	c := NewResultCache()
	segs := []render.Segment{{Text: "run (verb)\n", Tag: render.TagHeadword}}

	if _, ok := c.Get(ModeMeaning, "run"); ok {
		t.Fatal("empty cache returned a result")
	}

	c.Add(ModeMeaning, "run", segs)
	segs[0].Text = "mutated"

	got, ok := c.Get(ModeMeaning, "run")
	if !ok {
		t.Fatal("cached result not found")
	}
	if got[0].Text != "run (verb)\n" {
		t.Errorf("cache shares storage with caller: %q", got[0].Text)
	}
	got[0].Text = "mutated again"
	if again, _ := c.Get(ModeMeaning, "run"); again[0].Text != "run (verb)\n" {
		t.Errorf("Get returned shared storage: %q", again[0].Text)
	}

	if _, ok := c.Get(ModeSynonyms, "run"); ok {
		t.Error("result leaked into another view")
	}
	if _, ok := c.Get(ModeMeaning, "Run"); ok {
		t.Error("lookup is not keyed by the literal query")
	}

	c.Add(ModeSynonyms, "run", segs)
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeMeaning},
		{in: "meaning", want: ModeMeaning},
		{in: "Synonyms", want: ModeSynonyms},
		{in: "thesaurus", want: ModeSynonyms},
		{in: " phrasal ", want: ModePhrasal},
		{in: "p", want: ModePhrasal},
		{in: "etymology", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusPending:     "Pending",
		StatusFetching:    "Fetching",
		StatusRendering:   "Rendering",
		StatusTranslating: "Translating",
		StatusCompleted:   "Completed",
		StatusFailed:      "Failed",
		StatusCancelled:   "Cancelled",
		Status(99):        "Unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
	if StatusTranslating.Done() || !StatusCancelled.Done() {
		t.Error("Done() misclassifies states")
	}
}
