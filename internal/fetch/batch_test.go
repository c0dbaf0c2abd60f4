package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInBatches_FailureKeepsOrder(t *testing.T) {
	tasks := []int{0, 1, 2, 3, 4, 5, 6}
	errTask := errors.New("task 2 failed")

	out := InBatches(context.Background(), Batcher{Size: 3}, tasks, func(_ context.Context, n int) (string, error) {
		// Later tasks in a chunk finish first.
		time.Sleep(time.Duration(3-n%3) * time.Millisecond)
		if n == 2 {
			return "ignored", errTask
		}
		return fmt.Sprintf("r%d", n), nil
	})

	if len(out) != 7 {
		t.Fatalf("got %d outcomes, want 7", len(out))
	}
	for i, o := range out {
		if i == 2 {
			if !errors.Is(o.Err, errTask) {
				t.Errorf("out[2].Err = %v, want %v", o.Err, errTask)
			}
			if o.Value != "" {
				t.Errorf("out[2].Value = %q, want zero value", o.Value)
			}
			continue
		}
		if o.Err != nil {
			t.Errorf("out[%d].Err = %v", i, o.Err)
		}
		if want := fmt.Sprintf("r%d", i); o.Value != want {
			t.Errorf("out[%d].Value = %q, want %q", i, o.Value, want)
		}
	}

	if got := Failed(out); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
	vals := Values(out)
	if len(vals) != 7 || vals[2] != "" || vals[6] != "r6" {
		t.Errorf("Values() = %q", vals)
	}
}

func TestInBatches_ChunkBoundaries(t *testing.T) {
	const size = 3
	tasks := make([]int, 10)
	for i := range tasks {
		tasks[i] = i
	}

	var (
		mu       sync.Mutex
		seq      int
		started  = make([]int, len(tasks))
		finished = make([]int, len(tasks))
		active   atomic.Int32
		peak     atomic.Int32
	)
	tick := func() int {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return seq
	}

	InBatches(context.Background(), Batcher{Size: size}, tasks, func(_ context.Context, n int) (struct{}, error) {
		started[n] = tick()
		cur := active.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
		finished[n] = tick()
		return struct{}{}, nil
	})

	if got := peak.Load(); got > size {
		t.Errorf("peak concurrency = %d, want <= %d", got, size)
	}
	for i := size; i < len(tasks); i++ {
		chunk := i / size
		for j := (chunk - 1) * size; j < chunk*size; j++ {
			if started[i] < finished[j] {
				t.Errorf("task %d started before task %d of the previous chunk finished", i, j)
			}
		}
	}
}

func TestInBatches_Progress(t *testing.T) {
	var got [][2]int
	b := Batcher{Size: 3, Progress: func(done, total int) {
		got = append(got, [2]int{done, total})
	}}

	InBatches(context.Background(), b, make([]int, 7), func(context.Context, int) (int, error) {
		return 0, nil
	})

	want := [][2]int{{3, 7}, {6, 7}, {7, 7}}
	if len(got) != len(want) {
		t.Fatalf("progress calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInBatches_SizeBelowOne(t *testing.T) {
	var active, peak atomic.Int32

	out := InBatches(context.Background(), Batcher{}, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		cur := active.Add(1)
		if cur > peak.Load() {
			peak.Store(cur)
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return n * 10, nil
	})

	if peak.Load() != 1 {
		t.Errorf("peak concurrency = %d, want 1", peak.Load())
	}
	if out[2].Value != 30 {
		t.Errorf("out[2].Value = %d, want 30", out[2].Value)
	}
}

func TestInBatches_Empty(t *testing.T) {
	called := false
	out := InBatches(context.Background(), Batcher{Size: 3}, nil, func(context.Context, int) (int, error) {
		called = true
		return 0, nil
	})
	if len(out) != 0 || called {
		t.Errorf("InBatches(nil) = %v, called = %v", out, called)
	}
}

func TestInBatches_CanceledStopsNextChunk(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	out := InBatches(ctx, Batcher{Size: 2}, []int{0, 1, 2, 3, 4}, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		if n == 0 {
			cancel()
		}
		return n, nil
	})

	if got := calls.Load(); got != 2 {
		t.Errorf("fn called %d times, want 2 (first chunk only)", got)
	}
	for i := 0; i < 2; i++ {
		if out[i].Err != nil || out[i].Value != i {
			t.Errorf("out[%d] = %+v, want completed", i, out[i])
		}
	}
	for i := 2; i < 5; i++ {
		if !errors.Is(out[i].Err, context.Canceled) {
			t.Errorf("out[%d].Err = %v, want context.Canceled", i, out[i].Err)
		}
	}
}
