package cake_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/codergreen/cake"
)

func TestRegistry(t *testing.T) {
	r := cake.NewRegistry()
	var events []string
	r.OnCreate(func(id cake.InstanceID, s interface{}) { events = append(events, "create "+s.(string)) })
	r.OnDestroy(func(id cake.InstanceID, s interface{}) { events = append(events, "destroy "+s.(string)) })

	calls := 0
	mk := func(s string) func() interface{} {
		return func() interface{} { calls++; return s }
	}
	if s := r.GetOrCreate(2, mk("b")); s != "b" {
		t.Fatalf("got %v", s)
	}
	if s := r.GetOrCreate(2, mk("other")); s != "b" || calls != 1 {
		t.Fatalf("state recreated: %v, %d calls", s, calls)
	}
	r.GetOrCreate(1, mk("a"))
	if ids := r.IDs(); !reflect.DeepEqual(ids, []cake.InstanceID{1, 2}) {
		t.Fatalf("IDs = %v", ids)
	}
	if !r.Destroy(2) || r.Destroy(2) {
		t.Fatal("bad Destroy result")
	}
	if _, ok := r.Get(2); ok {
		t.Fatal("destroyed state still present")
	}
	r.Clear()
	want := []string{"create b", "create a", "destroy b", "destroy a"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if r.Len() != 0 {
		t.Fatal("registry not empty")
	}
}

func TestRegistry_concurrent(t *testing.T) {
	r := cake.NewRegistry()
	var created int
	var mu sync.Mutex
	r.OnCreate(func(cake.InstanceID, interface{}) {
		mu.Lock()
		created++
		mu.Unlock()
	})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for id := cake.InstanceID(0); id < 8; id++ {
				r.GetOrCreate(id, func() interface{} { return i })
				r.Get(id)
			}
		}(i)
	}
	wg.Wait()
	if created != 8 || r.Len() != 8 {
		t.Fatalf("created %d states, registry holds %d", created, r.Len())
	}
}
