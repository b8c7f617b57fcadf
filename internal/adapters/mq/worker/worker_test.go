package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/modtier/internal/adapters/mq/worker"
	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/internal/domain/model"
	logging "github.com/okian/modtier/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	ch chan model.Inspection
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan model.Inspection, 128)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.Inspection { return mq.ch }

func (mq *mockQueue) Close() error {
	close(mq.ch)
	return nil
}

func (mq *mockQueue) add(id string, mods ...string) {
	item := inspect.Item{ID: id}
	for _, m := range mods {
		item.Mods = append(item.Mods, inspect.ModInstance{Key: m})
	}
	mq.ch <- model.Inspection{ID: id, Item: item, ReceivedAt: time.Now()}
}

type mockInspector struct {
	mu   sync.Mutex
	errs map[string]error
}

func newMockInspector() *mockInspector {
	return &mockInspector{errs: make(map[string]error)}
}

func (mi *mockInspector) Inspect(_ context.Context, item inspect.Item) (inspect.Report, error) {
	mi.mu.Lock()
	defer mi.mu.Unlock()
	if err, ok := mi.errs[item.ID]; ok {
		return inspect.Report{}, err
	}
	rep := inspect.Report{ItemID: item.ID}
	for _, m := range item.Mods {
		rep.Unknown = append(rep.Unknown, m.Key)
	}
	return rep, nil
}

func (mi *mockInspector) fail(id string, err error) {
	mi.mu.Lock()
	defer mi.mu.Unlock()
	mi.errs[id] = err
}

type mockSaver struct {
	mu      sync.Mutex
	reports map[string]inspect.Report
	err     error
}

func newMockSaver() *mockSaver {
	return &mockSaver{reports: make(map[string]inspect.Report)}
}

func (ms *mockSaver) Save(_ context.Context, id string, rep inspect.Report) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.reports[id] = rep
	return nil
}

func (ms *mockSaver) get(id string) (inspect.Report, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	rep, ok := ms.reports[id]
	return rep, ok
}

func (ms *mockSaver) count() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.reports)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		inspector := newMockInspector()
		saver := newMockSaver()
		w := worker.NewInMemoryWorker(q, inspector, saver, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When an inspection is queued", func() {
			q.add("inspection-1", "Life1", "Mana2")
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then its report is saved under the inspection id", func() {
				rep, ok := saver.get("inspection-1")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(rep.ItemID, convey.ShouldEqual, "inspection-1")
				convey.So(rep.Unknown, convey.ShouldResemble, []string{"Life1", "Mana2"})
			})
		})

		convey.Convey("When the inspector fails", func() {
			inspector.fail("inspection-2", errors.New("boom"))
			q.add("inspection-2")
			q.add("inspection-3")
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then nothing is saved for it and the worker keeps going", func() {
				_, ok := saver.get("inspection-2")
				convey.So(ok, convey.ShouldBeFalse)
				_, ok = saver.get("inspection-3")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the saver fails", func() {
			saver.mu.Lock()
			saver.err = errors.New("disk full")
			saver.mu.Unlock()
			q.add("inspection-4")
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then no report is stored", func() {
				convey.So(saver.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully and tolerates a second call", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue closes", func() {
			_ = q.Close()

			convey.Convey("Then the worker exits on its own", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool of four workers", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		inspector := newMockInspector()
		saver := newMockSaver()
		pool := worker.NewPool(4, q, inspector, saver)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When many inspections arrive concurrently", func() {
			const producers, perProducer = 4, 25
			var wg sync.WaitGroup
			for p := 0; p < producers; p++ {
				wg.Add(1)
				go func(p int) {
					defer wg.Done()
					for j := 0; j < perProducer; j++ {
						q.add(fmt.Sprintf("inspection-%d-%d", p, j))
					}
				}(p)
			}
			wg.Wait()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then shutdown drains the queue before returning", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldEqual, producers*perProducer)
			})
		})
	})

	convey.Convey("Given a pool created with a non-positive count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, newMockQueue(), newMockInspector(), newMockSaver())

		convey.Convey("Then it falls back to one worker per CPU", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
