package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	b := New[string]()
	if b == nil {
		t.Fatal("New() returned nil")
	}
	if b.Completed() {
		t.Error("expected new bridge to not be completed")
	}
	if b.Len() != 0 {
		t.Errorf("expected empty bridge, got %d items", b.Len())
	}
}

func TestBridge_PostThenDrain(t *testing.T) {
	b := New[string]()

	if !b.Post("a") {
		t.Error("Post(a) returned false on open bridge")
	}
	if !b.Post("b") {
		t.Error("Post(b) returned false on open bridge")
	}
	b.Complete()

	var got []string
	for item, err := range b.Consume(context.Background()) {
		if err != nil {
			t.Fatalf("Consume yielded error: %v", err)
		}
		got = append(got, item)
	}

	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBridge_PostAfterComplete(t *testing.T) {
	b := New[int]()
	b.Post(1)
	b.Complete()

	if b.Post(2) {
		t.Error("Post() returned true after Complete()")
	}

	var got []int
	for item, err := range b.Consume(context.Background()) {
		if err != nil {
			t.Fatalf("Consume yielded error: %v", err)
		}
		got = append(got, item)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1], got %v", got)
	}

	stats := b.Stats()
	if stats.Dropped != 1 {
		t.Errorf("expected 1 dropped item, got %d", stats.Dropped)
	}
}

func TestBridge_CompleteIdempotent(t *testing.T) {
	b := New[int]()
	b.Complete()
	b.Complete() // must not panic or reopen
	if !b.Completed() {
		t.Error("expected bridge to be completed")
	}
	if b.Post(1) {
		t.Error("Post() returned true after double Complete()")
	}
}

func TestBridge_NextBlocksUntilPost(t *testing.T) {
	b := New[string]()

	type result struct {
		item string
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		item, err := b.Next(context.Background())
		resultCh <- result{item, err}
	}()

	select {
	case r := <-resultCh:
		t.Fatalf("Next() returned early: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}

	b.Post("hello")

	select {
	case r := <-resultCh:
		if r.err != nil {
			t.Fatalf("Next() failed: %v", r.err)
		}
		if r.item != "hello" {
			t.Errorf("expected %q, got %q", "hello", r.item)
		}
	case <-time.After(time.Second):
		t.Fatal("Next() did not return after Post()")
	}
}

func TestBridge_NextDrainsBeforeCompleting(t *testing.T) {
	b := New[int]()
	for i := 0; i < 3; i++ {
		b.Post(i)
	}
	b.Complete()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		item, err := b.Next(ctx)
		if err != nil {
			t.Fatalf("Next() #%d failed: %v", i, err)
		}
		if item != i {
			t.Errorf("expected %d, got %d", i, item)
		}
	}

	if _, err := b.Next(ctx); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted, got %v", err)
	}
}

func TestBridge_NextUnblocksOnComplete(t *testing.T) {
	b := New[int]()

	errCh := make(chan error, 1)
	go func() {
		_, err := b.Next(context.Background())
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	b.Complete()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrCompleted) {
			t.Errorf("expected ErrCompleted, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Next() did not return after Complete()")
	}
}

func TestBridge_CancelWhileWaiting(t *testing.T) {
	b := New[int]()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := b.Next(ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Next() did not return after cancellation")
	}
}

func TestBridge_CancellationWinsOverBufferedItems(t *testing.T) {
	b := New[int]()
	b.Post(1)
	b.Post(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("expected buffered items to remain undelivered, got %d pending", b.Len())
	}
}

func TestBridge_ConsumeCancelled(t *testing.T) {
	b := New[int]()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		for _, err := range b.Consume(ctx) {
			if err != nil {
				errCh <- err
				return
			}
		}
		errCh <- nil
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Consume did not observe cancellation")
	}

	// A fresh bridge is unaffected by the cancelled one.
	b2 := New[int]()
	b2.Post(42)
	b2.Complete()
	item, err := b2.Next(context.Background())
	if err != nil || item != 42 {
		t.Errorf("fresh bridge: expected (42, nil), got (%d, %v)", item, err)
	}
}

func TestBridge_ConsumeSingleReader(t *testing.T) {
	b := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		close(started)
		for _, err := range b.Consume(ctx) {
			if err != nil {
				return
			}
		}
	}()

	<-started
	time.Sleep(20 * time.Millisecond) // let the first iteration reach its wait

	var second error
	for _, err := range b.Consume(ctx) {
		second = err
		break
	}
	if !errors.Is(second, ErrConsumeActive) {
		t.Errorf("expected ErrConsumeActive, got %v", second)
	}

	cancel()
	<-done

	// Once the first iteration ends the bridge accepts a new consumer.
	b.Post(7)
	b.Complete()
	var got []int
	for item, err := range b.Consume(context.Background()) {
		if err != nil {
			t.Fatalf("Consume after release failed: %v", err)
		}
		got = append(got, item)
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected [7], got %v", got)
	}
}

func TestBridge_PerProducerOrdering(t *testing.T) {
	b := New[string]()

	const producers = 4
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Post(fmt.Sprintf("p%d-%d", p, i))
			}
		}(p)
	}
	wg.Wait()
	b.Complete()

	next := make([]int, producers)
	total := 0
	for item, err := range b.Consume(context.Background()) {
		if err != nil {
			t.Fatalf("Consume yielded error: %v", err)
		}
		var p, i int
		if _, err := fmt.Sscanf(item, "p%d-%d", &p, &i); err != nil {
			t.Fatalf("malformed item %q: %v", item, err)
		}
		if i != next[p] {
			t.Fatalf("producer %d out of order: expected %d, got %d", p, next[p], i)
		}
		next[p]++
		total++
	}

	if total != producers*perProducer {
		t.Errorf("expected %d items, got %d", producers*perProducer, total)
	}
}

func TestBridge_ConcurrentPostAndComplete(t *testing.T) {
	b := New[int]()

	const posters = 8
	const perPoster = 200

	var wg sync.WaitGroup
	for p := 0; p < posters; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPoster; i++ {
				b.Post(i)
			}
		}()
	}

	// Complete while producers are still firing; their late posts must be
	// dropped, not delivered.
	time.Sleep(time.Millisecond)
	b.Complete()
	wg.Wait()

	delivered := 0
	for _, err := range b.Consume(context.Background()) {
		if err != nil {
			t.Fatalf("Consume yielded error: %v", err)
		}
		delivered++
	}

	stats := b.Stats()
	if uint64(delivered) != stats.Posted {
		t.Errorf("delivered %d items but %d were accepted", delivered, stats.Posted)
	}
	if stats.Posted+stats.Dropped != posters*perPoster {
		t.Errorf("accepted(%d)+dropped(%d) != attempted(%d)",
			stats.Posted, stats.Dropped, posters*perPoster)
	}
}

func TestBridge_Stats(t *testing.T) {
	b := New[int]()
	b.Post(1)
	b.Post(2)

	stats := b.Stats()
	if stats.Posted != 2 || stats.Pending != 2 || stats.Delivered != 0 {
		t.Errorf("unexpected stats before drain: %+v", stats)
	}

	if _, err := b.Next(context.Background()); err != nil {
		t.Fatalf("Next() failed: %v", err)
	}

	stats = b.Stats()
	if stats.Delivered != 1 || stats.Pending != 1 {
		t.Errorf("unexpected stats after one delivery: %+v", stats)
	}
}

func TestBridge_StatsConsistentDuringPosts(t *testing.T) {
	b := New[int]()

	const posters = 4
	const perPoster = 500

	var wg sync.WaitGroup
	for p := 0; p < posters; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPoster; i++ {
				b.Post(i)
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// Every snapshot taken mid-post must account for each buffered item.
	for sampling := true; sampling; {
		stats := b.Stats()
		if uint64(stats.Pending) > stats.Posted {
			t.Fatalf("snapshot reports %d pending but only %d posted", stats.Pending, stats.Posted)
		}
		select {
		case <-done:
			sampling = false
		default:
		}
	}

	stats := b.Stats()
	if stats.Posted != posters*perPoster || stats.Pending != posters*perPoster {
		t.Errorf("unexpected final stats: %+v", stats)
	}
}
