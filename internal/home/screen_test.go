package home

import (
	"context"
	"errors"
	"testing"

	"github.com/i474232898/instant-weather/internal/weather"
)

type stubObserver struct {
	loc weather.Location
	err error
}

func (s stubObserver) Once(context.Context) (weather.Location, error) {
	return s.loc, s.err
}

type recordingSaver struct {
	saved []weather.Location
}

func (r *recordingSaver) SaveLocation(_ context.Context, loc weather.Location) error {
	r.saved = append(r.saved, loc)
	return nil
}

type countingScheduler struct {
	calls int
	err   error
}

func (c *countingScheduler) Schedule() error {
	c.calls++
	return c.err
}

func TestScreenStart(t *testing.T) {
	store := &fakeStore{cached: sampleSnapshot(18)}
	m := newTestModel(store, weather.Celsius, nil)
	defer m.Close()

	saver := &recordingSaver{}
	sched := &countingScheduler{}
	screen := NewScreen(m, stubObserver{loc: london}, saver, sched)

	if err := screen.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Wait()

	if st := m.State(); st.Status != StatusSuccess {
		t.Errorf("expected success, got %q", st.Status)
	}
	if len(saver.saved) != 1 || saver.saved[0] != london {
		t.Errorf("expected location to be saved once, got %v", saver.saved)
	}
	if sched.calls != 1 {
		t.Errorf("expected one Schedule call, got %d", sched.calls)
	}
}

func TestScreenStartWithoutLocation(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(store, weather.Celsius, nil)
	defer m.Close()

	sched := &countingScheduler{}
	screen := NewScreen(m, stubObserver{err: context.Canceled}, &recordingSaver{}, sched)

	err := screen.Start(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(store.callLog()) != 0 || sched.calls != 0 {
		t.Errorf("expected no downstream action without a location")
	}
}
