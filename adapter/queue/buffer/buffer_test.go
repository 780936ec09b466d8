package buffer

import (
	"testing"

	"github.com/docseek-io/filing-lookup/adapter/queue"
)

func TestMessageOrder(t *testing.T) {
	q := New()
	want := []string{"first", "second", "third"}
	for _, m := range want {
		if err := q.SendMessage([]byte(m)); err != nil {
			t.Fatal(err.Error())
		}
	}
	q.Close()

	for _, w := range want {
		got, err := q.RecvMessage()
		if err != nil {
			t.Fatal(err.Error())
		}
		if string(got) != w {
			t.Errorf("Got '%s', want '%s'", string(got), w)
		}
	}

	// buffer is empty and closed
	if _, err := q.RecvMessage(); err != queue.DrainedErr {
		t.Errorf("Got '%v', want drained error", err)
	}
}

func TestRecvUnblocksOnClose(t *testing.T) {
	q := New()

	done := make(chan error)
	go func() {
		_, err := q.RecvMessage()
		done <- err
	}()

	q.Close()
	if err := <-done; err != queue.DrainedErr {
		t.Errorf("Got '%v', want drained error", err)
	}
}

func TestSendAfterClose(t *testing.T) {
	q := New()
	q.Close()
	if err := q.SendMessage([]byte("late")); err != queue.DrainedErr {
		t.Errorf("Got '%v', want drained error", err)
	}
}
