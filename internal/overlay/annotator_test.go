package overlay

import (
	"bytes"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestApply_Deterministic(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 34, 56, 0, time.UTC)

	a := New()
	first := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer first.Close()
	second := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer second.Close()

	a.Apply(&first, ts)
	a.Apply(&second, ts)

	fb, err := first.DataPtrUint8()
	if err != nil {
		t.Fatalf("first frame bytes: %v", err)
	}
	sb, err := second.DataPtrUint8()
	if err != nil {
		t.Fatalf("second frame bytes: %v", err)
	}
	if !bytes.Equal(fb, sb) {
		t.Error("annotating identical frames with the same timestamp produced different output")
	}
}

func TestApply_ChangesFrame(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 34, 56, 0, time.UTC)

	plain := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer plain.Close()
	stamped := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer stamped.Close()

	New().Apply(&stamped, ts)

	pb, err := plain.DataPtrUint8()
	if err != nil {
		t.Fatalf("plain frame bytes: %v", err)
	}
	sb, err := stamped.DataPtrUint8()
	if err != nil {
		t.Fatalf("stamped frame bytes: %v", err)
	}
	if bytes.Equal(pb, sb) {
		t.Error("annotation left the frame untouched")
	}
}
